// bankimport переносит банки вопросов из JSON/YAML файлов в Postgres
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/IT-Nick/assessment-bot/internal/app"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/IT-Nick/assessment-bot/internal/domain/questions/repository"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file")
	dir := flag.String("dir", "", "directory with question banks (defaults to questions.dir)")
	flag.Parse()

	logger := log.New(os.Stdout, "[bankimport] ", log.LstdFlags)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *dir == "" {
		*dir = cfg.Questions.Dir
	}

	ctx := context.Background()
	pool, err := app.InitDatabase(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repo := repository.NewQuestionRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to create schema: %v", err)
	}

	files := repository.NewFileSource(*dir, logger)
	total := 0
	for _, spec := range cfg.Specializations {
		for _, d := range model.Difficulties {
			records, err := files.Bank(ctx, spec.Key, d)
			if errors.Is(err, repository.ErrBankNotFound) {
				continue
			}
			if err != nil {
				logger.Fatalf("Failed to read bank %s/%s: %v", spec.Key, d, err)
			}

			n, err := repo.ReplaceBank(ctx, spec.Key, d, records)
			if err != nil {
				logger.Fatalf("Failed to import bank %s/%s: %v", spec.Key, d, err)
			}
			logger.Printf("Imported %s/%s: %d questions", spec.Key, d, n)
			total += n
		}
	}
	logger.Printf("Done, %d questions imported", total)
}
