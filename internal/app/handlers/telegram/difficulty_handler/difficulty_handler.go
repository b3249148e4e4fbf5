package difficulty_handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/app/flow"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/infra/timer"
	"gopkg.in/telebot.v4"
)

// DifficultyHandler выбор уровня сложности: загрузка вопросов, запуск таймера и первый вопрос
type DifficultyHandler struct {
	bot       *telebot.Bot
	flow      *flow.Flow
	onTimeout func(userID int64)
	logger    *log.Logger
}

// NewDifficultyHandler возвращает структуру обработчика
func NewDifficultyHandler(bot *telebot.Bot, flow *flow.Flow, onTimeout func(userID int64), logger *log.Logger) *DifficultyHandler {
	return &DifficultyHandler{bot: bot, flow: flow, onTimeout: onTimeout, logger: logger}
}

func (h *DifficultyHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID

	difficulty, err := model.ParseDifficulty(c.Callback().Data)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "❌ Неверный уровень сложности"})
	}

	// сообщение таймера появляется после запуска таймера, тики читают его из другой горутины
	var timerMsg atomic.Pointer[telebot.Message]
	hooks := timer.Hooks{
		OnTick: func(remaining time.Duration) {
			msg := timerMsg.Load()
			if msg == nil {
				return
			}
			_, err := h.bot.Edit(msg, keyboards.TimerText(model.FormatElapsed(remaining)))
			if err != nil && !errors.Is(err, telebot.ErrSameMessageContent) {
				h.logger.Printf("Failed to update timer message for user %d: %v", userID, err)
			}
		},
		OnTimeout: func() { h.onTimeout(userID) },
	}

	started, err := h.flow.StartTest(context.Background(), userID, difficulty, hooks)
	switch {
	case errors.Is(err, flow.ErrWrongStep):
		return c.Respond(&telebot.CallbackResponse{Text: "Сначала выберите специализацию: /start"})
	case errors.Is(err, flow.ErrLoadFailed):
		_ = c.Respond()
		return c.Edit("❌ Не удалось загрузить вопросы. Попробуйте позже.")
	case err != nil:
		return fmt.Errorf("failed to start test: %w", err)
	}
	_ = c.Respond()

	// сообщение с кнопками уровней больше не нужно
	_ = c.Delete()

	timerID := 0
	msg, err := h.bot.Send(c.Sender(), keyboards.TimerText(model.FormatElapsed(time.Until(started.Deadline))))
	if err != nil {
		h.logger.Printf("Failed to send timer message for user %d: %v", userID, err)
	} else {
		timerMsg.Store(msg)
		timerID = msg.ID
	}

	questionMsg, err := h.bot.Send(c.Sender(), keyboards.QuestionText(started.View), &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: keyboards.Question(started.View),
	})
	if err != nil {
		return fmt.Errorf("failed to send question: %w", err)
	}

	h.flow.SetMessages(userID, questionMsg.ID, timerID)
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *DifficultyHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
