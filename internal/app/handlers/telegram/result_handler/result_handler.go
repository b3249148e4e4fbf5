package result_handler

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/app/flow"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"github.com/IT-Nick/assessment-bot/internal/report"
	"gopkg.in/telebot.v4"
)

// Через сколько удаляется сообщение с правильными ответами
const ReviewTTL = 60 * time.Second

// ResultHandler правильные ответы и сертификат после завершения теста
type ResultHandler struct {
	bot    *telebot.Bot
	flow   *flow.Flow
	cfg    *config.Config
	logger *log.Logger
}

func NewResultHandler(bot *telebot.Bot, flow *flow.Flow, cfg *config.Config, logger *log.Logger) *ResultHandler {
	return &ResultHandler{bot: bot, flow: flow, cfg: cfg, logger: logger}
}

// HandleShowAnswers отправляет разбор ответов и удаляет его через ReviewTTL
func (h *ResultHandler) HandleShowAnswers(c telebot.Context) error {
	items, err := h.flow.Review(c.Sender().ID)
	if errors.Is(err, flow.ErrNoResult) {
		return c.Respond(&telebot.CallbackResponse{Text: "❌ Данные теста не найдены"})
	}
	if err != nil {
		return err
	}
	_ = c.Respond()

	msg, err := h.bot.Send(c.Sender(), keyboards.ReviewText(items, int(ReviewTTL.Seconds())), telebot.ModeHTML)
	if err != nil {
		return fmt.Errorf("failed to send answers: %w", err)
	}

	time.AfterFunc(ReviewTTL, func() {
		if err := h.bot.Delete(msg); err != nil {
			h.logger.Printf("Failed to delete answers message for user %d: %v", c.Sender().ID, err)
		}
	})
	return nil
}

// HandleCertificate отправляет PDF сертификат
func (h *ResultHandler) HandleCertificate(c telebot.Context) error {
	pdf, result, err := h.flow.Certificate(c.Sender().ID)
	if errors.Is(err, flow.ErrNoResult) {
		return c.Respond(&telebot.CallbackResponse{Text: "❌ Данные теста не найдены"})
	}
	if err != nil {
		h.logger.Printf("Failed to generate certificate for user %d: %v", c.Sender().ID, err)
		_ = c.Respond()
		return c.Send("❌ Ошибка генерации сертификата")
	}
	_ = c.Respond(&telebot.CallbackResponse{Text: "📄 Генерация сертификата..."})

	spec := h.flow.Store.Get(c.Sender().ID).Specialization
	doc := &telebot.Document{
		File:     telebot.FromReader(bytes.NewReader(pdf)),
		FileName: report.FileName(spec),
		MIME:     "application/pdf",
		Caption: fmt.Sprintf("🏆 <b>Ваш сертификат готов!</b>\n\nСпециализация: %s\nОценка: %s\nРезультат: %.1f%%",
			html.EscapeString(h.cfg.SpecializationTitle(spec)), strings.ToUpper(result.Grade.String()), result.Percentage),
	}
	return c.Send(doc, telebot.ModeHTML)
}

// GetShowAnswersHandlerFunc возвращает обработчик кнопки "Правильные ответы"
func (h *ResultHandler) GetShowAnswersHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleShowAnswers(c)
	}
}

// GetCertificateHandlerFunc возвращает обработчик кнопки "Сертификат"
func (h *ResultHandler) GetCertificateHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleCertificate(c)
	}
}
