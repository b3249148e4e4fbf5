package finish_handler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/IT-Nick/assessment-bot/internal/app/flow"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// FinishHandler завершает тест по кнопке, после последнего вопроса или по таймеру
type FinishHandler struct {
	bot    *telebot.Bot
	flow   *flow.Flow
	cfg    *config.Config
	logger *log.Logger
}

// NewFinishHandler возвращает структуру обработчика
func NewFinishHandler(bot *telebot.Bot, flow *flow.Flow, cfg *config.Config, logger *log.Logger) *FinishHandler {
	return &FinishHandler{bot: bot, flow: flow, cfg: cfg, logger: logger}
}

// Handle обработчик кнопки "Завершить"
func (h *FinishHandler) Handle(c telebot.Context) error {
	_ = c.Respond()
	return h.Finish(c.Sender().ID, false)
}

// Timeout вызывается таймером, когда время на тест вышло
func (h *FinishHandler) Timeout(userID int64) {
	if err := h.Finish(userID, true); err != nil {
		h.logger.Printf("Failed to finish test on timeout for user %d: %v", userID, err)
	}
}

// Finish завершает тест и показывает результат. Если тест уже завершен, ничего не делает.
func (h *FinishHandler) Finish(userID int64, timedOut bool) error {
	st := h.flow.Store.Get(userID)

	outcome, err := h.flow.Finish(context.Background(), userID)
	if errors.Is(err, flow.ErrWrongStep) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to finish test: %w", err)
	}

	chat := &telebot.Chat{ID: userID}
	if st.TimerMessageID != 0 {
		_ = h.bot.Delete(&telebot.Message{ID: st.TimerMessageID, Chat: chat})
	}

	text := keyboards.ResultText(h.cfg.SpecializationTitle(st.Specialization), outcome.Result, timedOut)
	if !outcome.Saved {
		text += "\n\n⚠️ Не удалось сохранить результат в статистику."
	}
	opts := &telebot.SendOptions{ParseMode: telebot.ModeHTML, ReplyMarkup: keyboards.Result()}

	if st.QuestionMessageID != 0 {
		_, err = h.bot.Edit(&telebot.Message{ID: st.QuestionMessageID, Chat: chat}, text, opts)
		if err == nil {
			return nil
		}
		h.logger.Printf("Failed to edit question message for user %d: %v", userID, err)
	}
	if _, err := h.bot.Send(&telebot.User{ID: userID}, text, opts); err != nil {
		return fmt.Errorf("failed to send result: %w", err)
	}
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *FinishHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
