package app

import (
	"context"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InitDatabase устанавливает подключение к базе банков вопросов
func InitDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	const op = "app.InitDatabase"

	connConfig, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse database config: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create database pool: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return db, nil
}
