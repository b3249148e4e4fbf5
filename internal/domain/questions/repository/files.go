package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"gopkg.in/yaml.v3"
)

var bankExtensions = []string{".json", ".yaml", ".yml"}

// FileSource читает банки вопросов из каталога.
//
// Файл ищется в порядке приоритета:
//  1. {dir}/{specialization}/{difficulty}.json
//  2. {dir}/{specialization}_{difficulty}.json
//  3. {dir}/{specialization}.json
//
// Вместо .json допускаются .yaml и .yml.
type FileSource struct {
	dir    string
	logger *log.Logger
}

// NewFileSource создает источник для каталога dir
func NewFileSource(dir string, logger *log.Logger) *FileSource {
	if logger == nil {
		logger = log.Default()
	}
	return &FileSource{dir: dir, logger: logger}
}

// Bank возвращает записи банка. Если ни один файл не найден, возвращается ErrBankNotFound.
func (s *FileSource) Bank(ctx context.Context, specialization string, difficulty model.Difficulty) ([]model.RawQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if specialization == "" || filepath.Base(specialization) != specialization || strings.HasPrefix(specialization, ".") {
		return nil, fmt.Errorf("invalid specialization name %q", specialization)
	}

	path, err := s.resolve(specialization, difficulty)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank %s: %w", path, err)
	}

	var records []model.RawQuestion
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &records)
	default:
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse bank %s: expected a list of questions: %w", path, err)
	}

	return records, nil
}

func (s *FileSource) candidates(specialization string, difficulty model.Difficulty) []string {
	var paths []string
	for _, base := range []string{
		filepath.Join(s.dir, specialization, string(difficulty)),
		filepath.Join(s.dir, specialization+"_"+string(difficulty)),
		filepath.Join(s.dir, specialization),
	} {
		for _, ext := range bankExtensions {
			paths = append(paths, base+ext)
		}
	}
	return paths
}

func (s *FileSource) resolve(specialization string, difficulty model.Difficulty) (string, error) {
	for _, path := range s.candidates(specialization, difficulty) {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		s.logger.Printf("Используется банк вопросов %s", path)
		return path, nil
	}

	s.logger.Printf("Файл вопросов не найден для %s (%s)", specialization, difficulty)
	return "", fmt.Errorf("%s/%s: %w", specialization, difficulty, ErrBankNotFound)
}
