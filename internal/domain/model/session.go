package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Taker данные тестируемого, вводятся до начала теста
type Taker struct {
	TelegramID int64  `json:"telegram_id"`
	FullName   string `json:"full_name"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// SessionParams параметры создания сессии
type SessionParams struct {
	Questions      []*Question
	Taker          Taker
	Specialization string
	Difficulty     Difficulty
	// StartedAt по умолчанию time.Now()
	StartedAt  time.Time
	StartIndex int
}

// Session одна попытка прохождения теста.
// Сессия не потокобезопасна: доступ к ней сериализует транспортный слой.
type Session struct {
	id             string
	questions      []*Question
	currentIndex   int
	selected       Selection
	history        map[int]Selection
	startedAt      time.Time
	taker          Taker
	specialization string
	difficulty     Difficulty

	result   Result
	finished bool
}

// NewSession создает сессию. Пустой список вопросов допустим, тогда результат будет нулевым.
func NewSession(p SessionParams) (*Session, error) {
	for i, q := range p.Questions {
		if q == nil {
			return nil, validationErrorf("questions", "question %d is nil", i)
		}
	}
	if len(p.Questions) > 0 && (p.StartIndex < 0 || p.StartIndex >= len(p.Questions)) {
		return nil, validationErrorf("current_index", "must be in range 0..%d, got %d", len(p.Questions)-1, p.StartIndex)
	}

	startedAt := p.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	return &Session{
		id:             uuid.NewString(),
		questions:      append([]*Question(nil), p.Questions...),
		currentIndex:   p.StartIndex,
		selected:       make(Selection),
		history:        make(map[int]Selection),
		startedAt:      startedAt,
		taker:          p.Taker,
		specialization: p.Specialization,
		difficulty:     p.Difficulty,
	}, nil
}

func (s *Session) ID() string             { return s.id }
func (s *Session) Taker() Taker           { return s.taker }
func (s *Session) Specialization() string { return s.specialization }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) StartedAt() time.Time   { return s.startedAt }
func (s *Session) Len() int               { return len(s.questions) }
func (s *Session) CurrentIndex() int      { return s.currentIndex }
func (s *Session) Selected() Selection    { return s.selected.Clone() }
func (s *Session) IsLast() bool           { return s.currentIndex >= len(s.questions)-1 }
func (s *Session) Questions() []*Question { return append([]*Question(nil), s.questions...) }
func (s *Session) Result() (Result, bool) { return s.result, s.finished }

// Current текущий вопрос или nil, если вопросов нет
func (s *Session) Current() *Question {
	if len(s.questions) == 0 {
		return nil
	}
	return s.questions[s.currentIndex]
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("question index %d out of range 0..%d", index, len(s.questions)-1)
	}
	return nil
}

// Toggle выбирает вариант, если он не выбран, и снимает выбор, если выбран.
// Ограничения на число одновременно выбранных вариантов нет.
func (s *Session) Toggle(position int) error {
	q := s.Current()
	if q == nil {
		return fmt.Errorf("session has no questions")
	}
	if position < 1 || position > q.OptionCount() {
		return fmt.Errorf("option %d out of range 1..%d", position, q.OptionCount())
	}
	s.selected.Toggle(position)
	return nil
}

// SaveAnswer сохраняет текущий выбор в историю, перезаписывая прежний ответ
func (s *Session) SaveAnswer(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.history[index] = s.selected.Clone()
	return nil
}

// LoadAnswer восстанавливает выбор из истории или сбрасывает его, если ответа не было
func (s *Session) LoadAnswer(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if saved, ok := s.history[index]; ok {
		s.selected = saved.Clone()
		return nil
	}
	s.selected = make(Selection)
	return nil
}

// Answer ответ из истории для вопроса index
func (s *Session) Answer(index int) (Selection, bool) {
	saved, ok := s.history[index]
	if !ok {
		return nil, false
	}
	return saved.Clone(), true
}

// Next сохраняет ответ и переходит к следующему вопросу.
// false означает, что вопросов больше нет и тест пора завершать.
func (s *Session) Next() bool {
	if len(s.questions) == 0 {
		return false
	}
	s.history[s.currentIndex] = s.selected.Clone()
	if s.currentIndex+1 >= len(s.questions) {
		return false
	}
	s.currentIndex++
	_ = s.LoadAnswer(s.currentIndex)
	return true
}

// Prev сохраняет ответ и возвращается к предыдущему вопросу
func (s *Session) Prev() bool {
	if len(s.questions) == 0 {
		return false
	}
	s.history[s.currentIndex] = s.selected.Clone()
	if s.currentIndex == 0 {
		return false
	}
	s.currentIndex--
	_ = s.LoadAnswer(s.currentIndex)
	return true
}

// QuestionView то, что показывается тестируемому: без правильных ответов и исходного порядка
type QuestionView struct {
	Number   int
	Total    int
	Prompt   string
	Options  []string
	Selected []int
}

func (s *Session) View() (QuestionView, bool) {
	q := s.Current()
	if q == nil {
		return QuestionView{}, false
	}
	return QuestionView{
		Number:   s.currentIndex + 1,
		Total:    len(s.questions),
		Prompt:   q.Prompt(),
		Options:  q.Options(),
		Selected: s.selected.Sorted(),
	}, true
}

// CalculateResults считает результат на текущий момент
func (s *Session) CalculateResults() Result {
	return s.Finish(time.Now())
}

// Finish считает результат на момент at. Повторный вызов пересчитывает результат
// по текущей истории.
func (s *Session) Finish(at time.Time) Result {
	correct := 0
	for idx, q := range s.questions {
		if q.IsCorrect(s.history[idx]) {
			correct++
		}
	}

	total := len(s.questions)
	percentage := 0.0
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}

	elapsed := at.Sub(s.startedAt)
	s.result = Result{
		CorrectCount:   correct,
		TotalQuestions: total,
		Percentage:     percentage,
		Grade:          GradeFor(percentage),
		Elapsed:        elapsed,
		ElapsedTime:    FormatElapsed(elapsed),
	}
	s.finished = true
	return s.result
}

// Review разбор ответов по каждому вопросу
func (s *Session) Review() []ReviewItem {
	items := make([]ReviewItem, 0, len(s.questions))
	for idx, q := range s.questions {
		answer := s.history[idx]
		items = append(items, ReviewItem{
			Number:   idx + 1,
			Correct:  q.Correct().Sorted(),
			Selected: answer.Sorted(),
			Matched:  q.IsCorrect(answer),
		})
	}
	return items
}
