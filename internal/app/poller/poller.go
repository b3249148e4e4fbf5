package poller

import (
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// NewPoller создает Poller в зависимости от режима работы бота
func NewPoller(cfg *config.Config) (telebot.Poller, error) {
	switch cfg.TelegramBot.Mode {
	case config.ModeWebhook:
		if cfg.TelegramBot.WebhookURL == "" {
			return nil, fmt.Errorf("webhook_url must be set in webhook mode")
		}
		return &telebot.Webhook{
			Listen: cfg.TelegramBot.ListenAddr,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: cfg.TelegramBot.WebhookURL,
			},
		}, nil
	case config.ModePolling, "":
		return &telebot.LongPoller{Timeout: cfg.TelegramBot.PollInterval}, nil
	default:
		return nil, fmt.Errorf("unknown bot mode %q", cfg.TelegramBot.Mode)
	}
}
