package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/google/uuid"
)

// Сколько последних тестов показывать в статистике
const DefaultRecentLimit = 5

var ErrSessionNotFinished = errors.New("session is not finished")

// Store хранилище результатов
type Store interface {
	SaveResult(ctx context.Context, rec model.TestRecord) error
	TouchUser(ctx context.Context, telegramID int64, at time.Time) error
	UserStats(ctx context.Context, telegramID int64, recent int) (*model.UserStats, error)
}

// StatsService содержит логику учета результатов тестирования
type StatsService struct {
	store  Store
	recent int
	now    func() time.Time
}

// NewStatsService создает новый экземпляр StatsService
func NewStatsService(store Store) *StatsService {
	return &StatsService{store: store, recent: DefaultRecentLimit, now: time.Now}
}

// RecordResult сохраняет результат завершенной сессии
func (s *StatsService) RecordResult(ctx context.Context, session *model.Session) (model.TestRecord, error) {
	result, finished := session.Result()
	if !finished {
		return model.TestRecord{}, ErrSessionNotFinished
	}

	rec := model.TestRecord{
		ID:             uuid.NewString(),
		SessionID:      session.ID(),
		Taker:          session.Taker(),
		Specialization: session.Specialization(),
		Difficulty:     session.Difficulty(),
		Result:         result,
		FinishedAt:     s.now(),
	}
	if err := s.store.SaveResult(ctx, rec); err != nil {
		return model.TestRecord{}, fmt.Errorf("failed to record result: %w", err)
	}
	return rec, nil
}

// TouchUser отмечает, что пользователь начал тест
func (s *StatsService) TouchUser(ctx context.Context, telegramID int64) error {
	if err := s.store.TouchUser(ctx, telegramID, s.now()); err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}
	return nil
}

// UserStats возвращает статистику пользователя, проценты округлены до десятых
func (s *StatsService) UserStats(ctx context.Context, telegramID int64) (*model.UserStats, error) {
	stats, err := s.store.UserStats(ctx, telegramID, s.recent)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	stats.AvgPercentage = round1(stats.AvgPercentage)
	stats.BestResult = round1(stats.BestResult)
	stats.WorstResult = round1(stats.WorstResult)
	for i := range stats.RecentTests {
		stats.RecentTests[i].Percentage = round1(stats.RecentTests[i].Percentage)
	}
	if stats.RecentTests == nil {
		stats.RecentTests = []model.RecentResult{}
	}
	return stats, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
