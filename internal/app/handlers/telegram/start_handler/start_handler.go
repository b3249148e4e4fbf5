package start_handler

import (
	"github.com/IT-Nick/assessment-bot/internal/app/flow"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// StartHandler структура для обработки команды /start, кнопки главного меню и справки
type StartHandler struct {
	flow *flow.Flow
	cfg  *config.Config
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(flow *flow.Flow, cfg *config.Config) *StartHandler {
	return &StartHandler{flow: flow, cfg: cfg}
}

// Handle сбрасывает диалог и показывает главное меню
func (h *StartHandler) Handle(c telebot.Context) error {
	h.flow.Cancel(c.Sender().ID)

	opts := &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: keyboards.MainMenu(h.cfg.Specializations),
	}
	if c.Callback() != nil {
		_ = c.Respond()
		if err := c.Edit(keyboards.WelcomeText, opts); err == nil {
			return nil
		}
	}
	return c.Send(keyboards.WelcomeText, opts)
}

// HandleHelp показывает справку
func (h *StartHandler) HandleHelp(c telebot.Context) error {
	opts := &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: keyboards.MainMenu(h.cfg.Specializations),
	}
	if c.Callback() != nil {
		_ = c.Respond()
		if err := c.Edit(keyboards.HelpText, opts); err == nil {
			return nil
		}
	}
	return c.Send(keyboards.HelpText, opts)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// GetHelpHandlerFunc возвращает обработчик справки
func (h *StartHandler) GetHelpHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleHelp(c)
	}
}
