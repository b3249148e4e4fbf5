package answer_handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/IT-Nick/assessment-bot/internal/app/flow"
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"gopkg.in/telebot.v4"
)

// Finisher завершает тест пользователя
type Finisher interface {
	Finish(userID int64, timedOut bool) error
}

// AnswerHandler выбор вариантов ответа и навигация по вопросам
type AnswerHandler struct {
	flow     *flow.Flow
	finisher Finisher
}

func NewAnswerHandler(flow *flow.Flow, finisher Finisher) *AnswerHandler {
	return &AnswerHandler{flow: flow, finisher: finisher}
}

// redraw перерисовывает сообщение с вопросом
func (h *AnswerHandler) redraw(c telebot.Context, view model.QuestionView) error {
	err := c.Edit(keyboards.QuestionText(view), &telebot.SendOptions{
		ParseMode:   telebot.ModeHTML,
		ReplyMarkup: keyboards.Question(view),
	})
	if errors.Is(err, telebot.ErrSameMessageContent) {
		return nil
	}
	return err
}

func (h *AnswerHandler) respondWrongStep(c telebot.Context, err error) error {
	if errors.Is(err, flow.ErrWrongStep) {
		return c.Respond(&telebot.CallbackResponse{Text: "Тест не активен. Начните заново: /start"})
	}
	return err
}

// HandleToggle отмечает вариант или снимает отметку
func (h *AnswerHandler) HandleToggle(c telebot.Context) error {
	position, err := strconv.Atoi(c.Callback().Data)
	if err != nil {
		return fmt.Errorf("invalid option position %q: %w", c.Callback().Data, err)
	}

	view, err := h.flow.Toggle(c.Sender().ID, position)
	if err != nil {
		return h.respondWrongStep(c, err)
	}
	_ = c.Respond()
	return h.redraw(c, view)
}

// HandleNext сохраняет ответ и показывает следующий вопрос; после последнего завершает тест
func (h *AnswerHandler) HandleNext(c telebot.Context) error {
	view, last, err := h.flow.Next(c.Sender().ID)
	if err != nil {
		return h.respondWrongStep(c, err)
	}
	_ = c.Respond()
	if last {
		return h.finisher.Finish(c.Sender().ID, false)
	}
	return h.redraw(c, view)
}

// HandlePrev возвращает к предыдущему вопросу
func (h *AnswerHandler) HandlePrev(c telebot.Context) error {
	view, err := h.flow.Prev(c.Sender().ID)
	if err != nil {
		return h.respondWrongStep(c, err)
	}
	_ = c.Respond()
	return h.redraw(c, view)
}

// GetHandlerFunc возвращает обработчик выбора варианта
func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleToggle(c)
	}
}

// GetNextHandlerFunc возвращает обработчик кнопки "Далее"
func (h *AnswerHandler) GetNextHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleNext(c)
	}
}

// GetPrevHandlerFunc возвращает обработчик кнопки "Назад"
func (h *AnswerHandler) GetPrevHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandlePrev(c)
	}
}
