package stats_handler

import (
	"context"
	"log"

	"github.com/IT-Nick/assessment-bot/internal/app/flow"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// StatsHandler команда /stats и кнопка "Моя статистика"
type StatsHandler struct {
	flow   *flow.Flow
	cfg    *config.Config
	logger *log.Logger
}

func NewStatsHandler(flow *flow.Flow, cfg *config.Config, logger *log.Logger) *StatsHandler {
	return &StatsHandler{flow: flow, cfg: cfg, logger: logger}
}

func (h *StatsHandler) Handle(c telebot.Context) error {
	stats, err := h.flow.UserStats(context.Background(), c.Sender().ID)
	if err != nil {
		h.logger.Printf("Failed to load stats for user %d: %v", c.Sender().ID, err)
		if c.Callback() != nil {
			return c.Respond(&telebot.CallbackResponse{Text: "❌ Ошибка загрузки"})
		}
		return c.Send("❌ Ошибка загрузки статистики")
	}

	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send(keyboards.StatsText(stats, h.cfg.SpecializationTitle), telebot.ModeHTML)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StatsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
