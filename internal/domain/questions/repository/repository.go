package repository

import (
	"context"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bankSchema = `
CREATE TABLE IF NOT EXISTS bank_questions (
        id              SERIAL PRIMARY KEY,
        specialization  TEXT NOT NULL,
        difficulty      TEXT NOT NULL,
        question_text   TEXT NOT NULL,
        test_options    TEXT[] NOT NULL,
        correct_answers TEXT NOT NULL,
        created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS bank_questions_bank_idx ON bank_questions (specialization, difficulty);
`

// QuestionRepository банк вопросов в PostgreSQL
type QuestionRepository struct {
	db *pgxpool.Pool
}

// NewQuestionRepository создает новый экземпляр QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// EnsureSchema создает таблицу банка, если ее нет
func (r *QuestionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, bankSchema); err != nil {
		return fmt.Errorf("failed to create bank schema: %w", err)
	}
	return nil
}

// Bank получает записи банка в порядке добавления
func (r *QuestionRepository) Bank(ctx context.Context, specialization string, difficulty model.Difficulty) ([]model.RawQuestion, error) {
	rows, err := r.db.Query(ctx, `
                SELECT question_text, test_options, correct_answers
                FROM bank_questions
                WHERE specialization = $1 AND difficulty = $2
                ORDER BY id
        `, specialization, string(difficulty))
	if err != nil {
		return nil, fmt.Errorf("failed to query bank: %w", err)
	}
	defer rows.Close()

	var records []model.RawQuestion
	for rows.Next() {
		var rec model.RawQuestion
		if err := rows.Scan(&rec.Question, &rec.Options, &rec.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", specialization, difficulty, ErrBankNotFound)
	}

	return records, nil
}

// ReplaceBank заменяет содержимое банка одной транзакцией
func (r *QuestionRepository) ReplaceBank(ctx context.Context, specialization string, difficulty model.Difficulty, records []model.RawQuestion) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM bank_questions WHERE specialization = $1 AND difficulty = $2`,
		specialization, string(difficulty)); err != nil {
		return 0, fmt.Errorf("failed to clear bank: %w", err)
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		options := rec.Options
		if options == nil {
			options = []string{}
		}
		batch.Queue(`
                INSERT INTO bank_questions (specialization, difficulty, question_text, test_options, correct_answers)
                VALUES ($1, $2, $3, $4, $5)
        `, specialization, string(difficulty), rec.Question, options, rec.CorrectAnswers)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to insert questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit bank: %w", err)
	}
	return len(records), nil
}
