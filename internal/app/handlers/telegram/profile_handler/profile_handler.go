package profile_handler

import (
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/IT-Nick/assessment-bot/internal/app/flow"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/assessment-bot/internal/app/state"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// ProfileHandler выбор специализации и ввод данных тестируемого
type ProfileHandler struct {
	flow   *flow.Flow
	cfg    *config.Config
	logger *log.Logger
}

// NewProfileHandler возвращает структуру обработчика
func NewProfileHandler(flow *flow.Flow, cfg *config.Config, logger *log.Logger) *ProfileHandler {
	return &ProfileHandler{flow: flow, cfg: cfg, logger: logger}
}

// HandleSpec обрабатывает выбор специализации и просит ввести ФИО
func (h *ProfileHandler) HandleSpec(c telebot.Context) error {
	spec := c.Callback().Data
	if err := h.flow.Begin(c.Sender().ID, spec); err != nil {
		h.logger.Printf("Failed to begin %q for user %d: %v", spec, c.Sender().ID, err)
		return c.Respond(&telebot.CallbackResponse{Text: "❌ Неизвестная специализация"})
	}
	_ = c.Respond()
	return h.askFullName(c, spec)
}

// HandleRepeat начинает тест заново с той же специализацией
func (h *ProfileHandler) HandleRepeat(c telebot.Context) error {
	spec, err := h.flow.Repeat(c.Sender().ID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "❌ Данные теста не найдены"})
	}
	_ = c.Respond()
	return h.askFullName(c, spec)
}

func (h *ProfileHandler) askFullName(c telebot.Context, spec string) error {
	// старое сообщение с меню или результатом удаляется, чтобы не нажимать на него повторно
	if c.Message() != nil {
		_ = c.Delete()
	}
	text := fmt.Sprintf("💼 <b>%s</b>\n\nВведите ваше ФИО:", html.EscapeString(h.cfg.SpecializationTitle(spec)))
	return c.Send(text, telebot.ModeHTML)
}

// HandleText принимает ФИО, должность и подразделение
func (h *ProfileHandler) HandleText(c telebot.Context) error {
	next, err := h.flow.SubmitText(c.Sender().ID, c.Text())
	switch {
	case errors.Is(err, flow.ErrWrongStep):
		return c.Send("Чтобы начать тестирование, нажмите /start")
	case errors.Is(err, flow.ErrEmptyInput):
		return c.Send("Пожалуйста, введите непустое значение.")
	case err != nil:
		return fmt.Errorf("failed to submit text: %w", err)
	}

	switch next {
	case state.StepPosition:
		return c.Send("Введите вашу должность:")
	case state.StepDepartment:
		return c.Send("Введите ваше подразделение:")
	case state.StepDifficulty:
		return c.Send("Выберите уровень сложности:", &telebot.SendOptions{
			ReplyMarkup: keyboards.Difficulty(h.flow.Levels),
		})
	}
	return nil
}

// GetSpecHandlerFunc возвращает обработчик кнопки специализации
func (h *ProfileHandler) GetSpecHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleSpec(c)
	}
}

// GetRepeatHandlerFunc возвращает обработчик кнопки повтора теста
func (h *ProfileHandler) GetRepeatHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleRepeat(c)
	}
}

// GetHandlerFunc возвращает обработчик текстовых сообщений
func (h *ProfileHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleText(c)
	}
}
