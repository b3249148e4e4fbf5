package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/app/state"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	questionsService "github.com/IT-Nick/assessment-bot/internal/domain/questions/service"
	"github.com/IT-Nick/assessment-bot/internal/infra/events"
	"github.com/IT-Nick/assessment-bot/internal/infra/timer"
	"github.com/IT-Nick/assessment-bot/internal/report"
)

var (
	ErrWrongStep   = errors.New("action is not allowed at this step")
	ErrEmptyInput  = errors.New("empty input")
	ErrNoResult    = errors.New("no finished test")
	ErrUnknownSpec = errors.New("unknown specialization")
	ErrLoadFailed  = errors.New("could not load questions")
)

// Ограничение длины ФИО, должности и подразделения в символах
const maxFieldLength = 200

// QuestionLoader загрузчик вопросов
type QuestionLoader interface {
	Load(ctx context.Context, req questionsService.LoadRequest) (*questionsService.LoadResult, error)
}

// StatsRecorder учет результатов
type StatsRecorder interface {
	RecordResult(ctx context.Context, session *model.Session) (model.TestRecord, error)
	TouchUser(ctx context.Context, telegramID int64) error
	UserStats(ctx context.Context, telegramID int64) (*model.UserStats, error)
}

// Timers управление таймерами тестов
type Timers interface {
	Start(ctx context.Context, userID int64, duration time.Duration, hooks timer.Hooks) time.Time
	Stop(userID int64) bool
}

// CertificateGenerator формирует PDF сертификат
type CertificateGenerator interface {
	Certificate(d report.CertificateData) ([]byte, error)
}

// Deps зависимости Flow
type Deps struct {
	Store           *state.Store
	Loader          QuestionLoader
	Stats           StatsRecorder
	Timers          Timers
	Publisher       events.Publisher
	Certificates    CertificateGenerator
	Levels          model.Levels
	Specializations []string
	Logger          *log.Logger
}

// Flow ведет тестируемого от выбора специализации до результата.
// Все изменения состояния пользователя идут через state.Store.Update.
type Flow struct {
	Deps
	specs map[string]struct{}
}

// New создает Flow
func New(deps Deps) *Flow {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NewNopPublisher(deps.Logger)
	}
	specs := make(map[string]struct{}, len(deps.Specializations))
	for _, s := range deps.Specializations {
		specs[s] = struct{}{}
	}
	return &Flow{Deps: deps, specs: specs}
}

// Started итог запуска теста
type Started struct {
	View         model.QuestionView
	Deadline     time.Time
	Level        model.Level
	Insufficient bool
}

// Outcome итог завершения теста
type Outcome struct {
	Result model.Result
	Record model.TestRecord
	// Saved false, если результат не удалось сохранить в статистику
	Saved bool
}

// Begin выбирает специализацию и переводит пользователя к вводу ФИО.
// Активный тест при этом прерывается.
func (f *Flow) Begin(userID int64, specialization string) error {
	if _, ok := f.specs[specialization]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSpec, specialization)
	}
	f.Timers.Stop(userID)
	return f.Store.Update(userID, func(st *state.FlowState) error {
		*st = state.FlowState{
			Step:           state.StepFullName,
			Specialization: specialization,
			Taker:          model.Taker{TelegramID: userID},
		}
		return nil
	})
}

// Cancel сбрасывает диалог пользователя и останавливает таймер
func (f *Flow) Cancel(userID int64) {
	f.Timers.Stop(userID)
	_ = f.Store.Update(userID, func(st *state.FlowState) error {
		st.Reset()
		return nil
	})
}

// SubmitText принимает ответ на текущий вопрос анкеты и возвращает следующий шаг
func (f *Flow) SubmitText(userID int64, text string) (state.Step, error) {
	text = strings.TrimSpace(text)
	var next state.Step
	err := f.Store.Update(userID, func(st *state.FlowState) error {
		switch st.Step {
		case state.StepFullName, state.StepPosition, state.StepDepartment:
		default:
			return ErrWrongStep
		}
		if text == "" {
			return ErrEmptyInput
		}
		if r := []rune(text); len(r) > maxFieldLength {
			text = string(r[:maxFieldLength])
		}

		switch st.Step {
		case state.StepFullName:
			st.Taker.FullName = text
			st.Step = state.StepPosition
		case state.StepPosition:
			st.Taker.Position = text
			st.Step = state.StepDepartment
		case state.StepDepartment:
			st.Taker.Department = text
			st.Step = state.StepDifficulty
		}
		next = st.Step
		return nil
	})
	return next, err
}

// StartTest загружает вопросы, создает сессию и запускает таймер уровня
func (f *Flow) StartTest(ctx context.Context, userID int64, difficulty model.Difficulty, hooks timer.Hooks) (*Started, error) {
	level, err := f.Levels.Lookup(difficulty)
	if err != nil {
		return nil, err
	}

	current := f.Store.Get(userID)
	if current.Step != state.StepDifficulty {
		return nil, ErrWrongStep
	}

	loaded, err := f.Loader.Load(ctx, questionsService.LoadRequest{
		Specialization: current.Specialization,
		Difficulty:     difficulty,
		TakerID:        userID,
	})
	if err != nil {
		f.Logger.Printf("Failed to load questions for user %d (%s/%s): %v", userID, current.Specialization, difficulty, err)
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if loaded.Insufficient {
		f.Logger.Printf("Bank %s/%s has %d questions of %d requested, using all of them",
			current.Specialization, difficulty, loaded.Available, loaded.Requested)
	}

	var started *Started
	err = f.Store.Update(userID, func(st *state.FlowState) error {
		if st.Step != state.StepDifficulty {
			return ErrWrongStep
		}
		session, err := model.NewSession(model.SessionParams{
			Questions:      loaded.Questions,
			Taker:          st.Taker,
			Specialization: st.Specialization,
			Difficulty:     difficulty,
		})
		if err != nil {
			return err
		}
		view, _ := session.View()

		st.Session = session
		st.Step = state.StepAnswering
		started = &Started{View: view, Level: level, Insufficient: loaded.Insufficient}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := f.Stats.TouchUser(ctx, userID); err != nil {
		f.Logger.Printf("Failed to update activity for user %d: %v", userID, err)
	}

	started.Deadline = f.Timers.Start(context.Background(), userID, level.Duration, hooks)
	f.Logger.Printf("User %d started %s (%s), %d questions", userID, current.Specialization, difficulty, len(loaded.Questions))
	return started, nil
}

// withSession выполняет fn над активной сессией пользователя
func (f *Flow) withSession(userID int64, fn func(st *state.FlowState, s *model.Session) error) error {
	return f.Store.Update(userID, func(st *state.FlowState) error {
		if st.Step != state.StepAnswering || st.Session == nil {
			return ErrWrongStep
		}
		return fn(st, st.Session)
	})
}

// Toggle переключает выбор варианта position (с 1) в текущем вопросе
func (f *Flow) Toggle(userID int64, position int) (model.QuestionView, error) {
	var view model.QuestionView
	err := f.withSession(userID, func(_ *state.FlowState, s *model.Session) error {
		if err := s.Toggle(position); err != nil {
			return err
		}
		view, _ = s.View()
		return nil
	})
	return view, err
}

// Next сохраняет ответ и переходит дальше. last == true означает, что вопросы кончились
// и тест нужно завершить.
func (f *Flow) Next(userID int64) (view model.QuestionView, last bool, err error) {
	err = f.withSession(userID, func(_ *state.FlowState, s *model.Session) error {
		if !s.Next() {
			last = true
			return nil
		}
		view, _ = s.View()
		return nil
	})
	return view, last, err
}

// Prev сохраняет ответ и возвращается к предыдущему вопросу
func (f *Flow) Prev(userID int64) (model.QuestionView, error) {
	var view model.QuestionView
	err := f.withSession(userID, func(_ *state.FlowState, s *model.Session) error {
		s.Prev()
		view, _ = s.View()
		return nil
	})
	return view, err
}

// SetMessages запоминает сообщения с вопросом и таймером
func (f *Flow) SetMessages(userID int64, questionMessageID, timerMessageID int) {
	_ = f.Store.Update(userID, func(st *state.FlowState) error {
		if questionMessageID != 0 {
			st.QuestionMessageID = questionMessageID
		}
		if timerMessageID != 0 {
			st.TimerMessageID = timerMessageID
		}
		return nil
	})
}

// Finish завершает тест: останавливает таймер, считает результат, сохраняет статистику
// и публикует событие. Повторный вызов возвращает ErrWrongStep.
func (f *Flow) Finish(ctx context.Context, userID int64) (*Outcome, error) {
	f.Timers.Stop(userID)

	var session *model.Session
	var result model.Result
	err := f.withSession(userID, func(st *state.FlowState, s *model.Session) error {
		// ответ на текущий вопрос сохраняется и при завершении по таймеру
		_ = s.SaveAnswer(s.CurrentIndex())
		result = s.CalculateResults()
		st.Step = state.StepFinished
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Result: result}
	rec, err := f.Stats.RecordResult(ctx, session)
	if err != nil {
		f.Logger.Printf("Failed to save result for user %d: %v", userID, err)
		return outcome, nil
	}
	outcome.Record = rec
	outcome.Saved = true

	if err := f.Publisher.Publish(events.TestFinished, events.NewTestFinishedPayload(rec)); err != nil {
		f.Logger.Printf("Failed to publish result for user %d: %v", userID, err)
	}

	f.Logger.Printf("User %d finished %s: %d/%d (%.1f%%, %s)", userID, session.Specialization(),
		result.CorrectCount, result.TotalQuestions, result.Percentage, result.Grade)
	return outcome, nil
}

// Review разбор ответов последнего завершенного теста
func (f *Flow) Review(userID int64) ([]model.ReviewItem, error) {
	var items []model.ReviewItem
	err := f.Store.Update(userID, func(st *state.FlowState) error {
		if st.Session == nil {
			return ErrNoResult
		}
		if _, ok := st.Session.Result(); !ok {
			return ErrNoResult
		}
		items = st.Session.Review()
		return nil
	})
	return items, err
}

// Certificate PDF сертификат последнего завершенного теста
func (f *Flow) Certificate(userID int64) ([]byte, model.Result, error) {
	var data report.CertificateData
	err := f.Store.Update(userID, func(st *state.FlowState) error {
		if st.Session == nil {
			return ErrNoResult
		}
		result, ok := st.Session.Result()
		if !ok {
			return ErrNoResult
		}
		data = report.CertificateData{
			Taker:          st.Session.Taker(),
			Specialization: st.Session.Specialization(),
			Difficulty:     st.Session.Difficulty(),
			Result:         result,
			Review:         st.Session.Review(),
			IssuedAt:       time.Now(),
			SessionID:      st.Session.ID(),
		}
		return nil
	})
	if err != nil {
		return nil, model.Result{}, err
	}

	pdf, err := f.Certificates.Certificate(data)
	if err != nil {
		return nil, model.Result{}, fmt.Errorf("failed to generate certificate: %w", err)
	}
	return pdf, data.Result, nil
}

// Repeat начинает тест заново с той же специализацией
func (f *Flow) Repeat(userID int64) (string, error) {
	spec := f.Store.Get(userID).Specialization
	if spec == "" {
		return "", ErrNoResult
	}
	if err := f.Begin(userID, spec); err != nil {
		return "", err
	}
	return spec, nil
}

// UserStats статистика пользователя
func (f *Flow) UserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	return f.Stats.UserStats(ctx, userID)
}
