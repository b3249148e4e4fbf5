package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
)

// Схема совместима с sqlite и PostgreSQL
const statsSchema = `
CREATE TABLE IF NOT EXISTS test_results (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  telegram_id BIGINT NOT NULL,
  full_name TEXT NOT NULL DEFAULT '',
  position TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  specialization TEXT NOT NULL,
  difficulty TEXT NOT NULL,
  correct_count INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  percentage DOUBLE PRECISION NOT NULL,
  grade TEXT NOT NULL,
  elapsed_seconds BIGINT NOT NULL,
  finished_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS test_results_telegram_idx ON test_results (telegram_id, finished_at);

CREATE TABLE IF NOT EXISTS user_activity (
  telegram_id BIGINT PRIMARY KEY,
  first_seen BIGINT NOT NULL,
  last_seen BIGINT NOT NULL,
  tests_started INTEGER NOT NULL DEFAULT 0
);
`

// StatsRepository хранит результаты тестов и активность пользователей
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository создает новый экземпляр StatsRepository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// EnsureSchema создает таблицы, если их нет
func (r *StatsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, statsSchema); err != nil {
		return fmt.Errorf("failed to create stats schema: %w", err)
	}
	return nil
}

// SaveResult сохраняет результат теста
func (r *StatsRepository) SaveResult(ctx context.Context, rec model.TestRecord) error {
	_, err := r.db.ExecContext(ctx, `
                INSERT INTO test_results (id, session_id, telegram_id, full_name, position, department,
                        specialization, difficulty, correct_count, total_questions, percentage, grade,
                        elapsed_seconds, finished_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        `,
		rec.ID, rec.SessionID, rec.Taker.TelegramID, rec.Taker.FullName, rec.Taker.Position, rec.Taker.Department,
		rec.Specialization, string(rec.Difficulty), rec.Result.CorrectCount, rec.Result.TotalQuestions,
		rec.Result.Percentage, rec.Result.Grade.String(), int64(rec.Result.Elapsed/time.Second),
		rec.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// TouchUser отмечает начало теста пользователем
func (r *StatsRepository) TouchUser(ctx context.Context, telegramID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
                INSERT INTO user_activity (telegram_id, first_seen, last_seen, tests_started)
                VALUES ($1, $2, $3, 1)
                ON CONFLICT (telegram_id) DO UPDATE
                SET last_seen = excluded.last_seen,
                        tests_started = user_activity.tests_started + 1
        `, telegramID, at.UnixMilli(), at.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to update user activity: %w", err)
	}
	return nil
}

// TestsStarted сколько раз пользователь начинал тест
func (r *StatsRepository) TestsStarted(ctx context.Context, telegramID int64) (int, error) {
	var started int
	err := r.db.QueryRowContext(ctx, `SELECT tests_started FROM user_activity WHERE telegram_id = $1`, telegramID).
		Scan(&started)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get user activity: %w", err)
	}
	return started, nil
}

// UserStats агрегирует результаты пользователя и возвращает recent последних тестов
func (r *StatsRepository) UserStats(ctx context.Context, telegramID int64, recent int) (*model.UserStats, error) {
	stats := &model.UserStats{TelegramID: telegramID}

	err := r.db.QueryRowContext(ctx, `
                SELECT COUNT(*), COALESCE(AVG(percentage), 0), COALESCE(MAX(percentage), 0), COALESCE(MIN(percentage), 0)
                FROM test_results
                WHERE telegram_id = $1
        `, telegramID).Scan(&stats.TotalTests, &stats.AvgPercentage, &stats.BestResult, &stats.WorstResult)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate results: %w", err)
	}

	if stats.TotalTests == 0 || recent <= 0 {
		return stats, nil
	}

	rows, err := r.db.QueryContext(ctx, `
                SELECT specialization, difficulty, grade, percentage, finished_at
                FROM test_results
                WHERE telegram_id = $1
                ORDER BY finished_at DESC
                LIMIT $2
        `, telegramID, recent)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res        model.RecentResult
			difficulty string
			finishedAt int64
		)
		if err := rows.Scan(&res.Specialization, &difficulty, &res.Grade, &res.Percentage, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Difficulty = model.Difficulty(difficulty)
		res.FinishedAt = time.UnixMilli(finishedAt)
		stats.RecentTests = append(stats.RecentTests, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return stats, nil
}
