package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
)

// ErrNoValidQuestions банк найден, но ни одна запись не прошла проверку
var ErrNoValidQuestions = errors.New("no valid questions in bank")

// Source источник записей банка вопросов
type Source interface {
	Bank(ctx context.Context, specialization string, difficulty model.Difficulty) ([]model.RawQuestion, error)
}

// LoadRequest что загружать и для кого
type LoadRequest struct {
	Specialization string
	Difficulty     model.Difficulty
	// TakerID если не 0, порядок вопросов для этого тестируемого будет одинаковым при повторных загрузках
	TakerID int64
}

// LoadResult отобранные вопросы с уже перемешанными вариантами
type LoadResult struct {
	Questions []*model.Question
	// Available сколько вопросов прошло проверку
	Available int
	Requested int
	Skipped   int
	// Insufficient в банке меньше вопросов, чем требует уровень сложности
	Insufficient bool
}

// Option настройка QuestionService
type Option func(*QuestionService)

// WithOptionShuffler задает источник для перемешивания вариантов ответа
func WithOptionShuffler(fn func() model.Shuffler) Option {
	return func(s *QuestionService) { s.optionShuffler = fn }
}

// WithOrderShuffler задает источник для перемешивания порядка вопросов
func WithOrderShuffler(fn func(takerID int64) model.Shuffler) Option {
	return func(s *QuestionService) { s.orderShuffler = fn }
}

// QuestionService загружает и отбирает вопросы для теста
type QuestionService struct {
	source         Source
	levels         model.Levels
	logger         *log.Logger
	optionShuffler func() model.Shuffler
	orderShuffler  func(takerID int64) model.Shuffler
}

// NewQuestionService создает новый экземпляр QuestionService
func NewQuestionService(source Source, levels model.Levels, logger *log.Logger, opts ...Option) *QuestionService {
	if logger == nil {
		logger = log.Default()
	}
	s := &QuestionService{
		source:         source,
		levels:         levels,
		logger:         logger,
		optionShuffler: model.Entropy,
		orderShuffler:  orderShuffler,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func orderShuffler(takerID int64) model.Shuffler {
	if takerID != 0 {
		return model.Seeded(takerID)
	}
	return model.Entropy()
}

// Load загружает банк, отбрасывает некорректные записи, перемешивает варианты каждого вопроса
// и отбирает нужное уровню сложности количество вопросов.
func (s *QuestionService) Load(ctx context.Context, req LoadRequest) (*LoadResult, error) {
	level, err := s.levels.Lookup(req.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve difficulty: %w", err)
	}

	records, err := s.source.Bank(ctx, req.Specialization, req.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank: %w", err)
	}

	result := &LoadResult{Requested: level.Questions}
	questions := make([]*model.Question, 0, len(records))
	for idx, rec := range records {
		draft, err := s.parseRecord(rec, req.Difficulty)
		if err != nil {
			s.logger.Printf("Пропуск вопроса %s:%d: %v", req.Specialization, idx, err)
			result.Skipped++
			continue
		}
		questions = append(questions, draft.Shuffle(s.optionShuffler()))
	}

	if len(questions) == 0 {
		s.logger.Printf("Не удалось загрузить вопросы для %s (%s)", req.Specialization, req.Difficulty)
		return nil, fmt.Errorf("%s/%s: %w", req.Specialization, req.Difficulty, ErrNoValidQuestions)
	}

	s.orderShuffler(req.TakerID).Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	result.Available = len(questions)
	if len(questions) < level.Questions {
		s.logger.Printf("Мало вопросов %s: %d < %d. Используем все доступные.",
			req.Specialization, len(questions), level.Questions)
		result.Insufficient = true
	} else {
		questions = questions[:level.Questions]
	}
	result.Questions = questions

	s.logger.Printf("Загружено %d вопросов для %s (%s)", len(questions), req.Specialization, req.Difficulty)
	return result, nil
}

func (s *QuestionService) parseRecord(rec model.RawQuestion, difficulty model.Difficulty) (*model.Draft, error) {
	if len(rec.Options) < model.MinOptions {
		return nil, fmt.Errorf("недостаточно вариантов: %d", len(rec.Options))
	}
	correct := ParseCorrectAnswers(rec.CorrectAnswers)
	if len(correct) == 0 {
		return nil, fmt.Errorf("нет правильных ответов в %q", rec.CorrectAnswers)
	}
	return model.NewDraft(rec.Question, rec.Options, correct, difficulty)
}

// ParseCorrectAnswers разбирает строку вида "1, 3,4". Токены, не являющиеся
// положительными целыми числами, отбрасываются.
func ParseCorrectAnswers(s string) []int {
	var out []int
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" || strings.IndexFunc(token, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}
