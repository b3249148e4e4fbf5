package repository

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBank(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func bankJSON(prompt string) string {
	return `[{"question": "` + prompt + `", "options": ["a", "b", "c"], "correct_answers": "1"}]`
}

func TestFileSource_FallbackChain(t *testing.T) {
	dir := t.TempDir()
	src := NewFileSource(dir, log.New(io.Discard, "", 0))
	ctx := context.Background()

	writeBank(t, filepath.Join(dir, "oupds.json"), bankJSON("общий"))
	records, err := src.Bank(ctx, "oupds", model.DifficultyBasic)
	require.NoError(t, err)
	assert.Equal(t, "общий", records[0].Question)

	writeBank(t, filepath.Join(dir, "oupds_basic.json"), bankJSON("плоский"))
	records, err = src.Bank(ctx, "oupds", model.DifficultyBasic)
	require.NoError(t, err)
	assert.Equal(t, "плоский", records[0].Question)

	writeBank(t, filepath.Join(dir, "oupds", "basic.json"), bankJSON("вложенный"))
	records, err = src.Bank(ctx, "oupds", model.DifficultyBasic)
	require.NoError(t, err)
	assert.Equal(t, "вложенный", records[0].Question)

	records, err = src.Bank(ctx, "oupds", model.DifficultyAdvanced)
	require.NoError(t, err)
	assert.Equal(t, "общий", records[0].Question)
}

func TestFileSource_YAML(t *testing.T) {
	dir := t.TempDir()
	writeBank(t, filepath.Join(dir, "aliment", "standard.yaml"), `
- question: Срок исполнения
  options: ["1 месяц", "2 месяца", "3 месяца"]
  correct_answers: "2"
`)

	records, err := NewFileSource(dir, nil).Bank(context.Background(), "aliment", model.DifficultyStandard)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.RawQuestion{
		Question:       "Срок исполнения",
		Options:        []string{"1 месяц", "2 месяца", "3 месяца"},
		CorrectAnswers: "2",
	}, records[0])
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()
	src := NewFileSource(dir, log.New(io.Discard, "", 0))
	ctx := context.Background()

	_, err := src.Bank(ctx, "missing", model.DifficultyBasic)
	assert.True(t, errors.Is(err, ErrBankNotFound))

	writeBank(t, filepath.Join(dir, "broken.json"), `{"question": "not a list"}`)
	_, err = src.Bank(ctx, "broken", model.DifficultyBasic)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBankNotFound))

	for _, name := range []string{"../etc", "a/b", "", ".."} {
		_, err = src.Bank(ctx, name, model.DifficultyBasic)
		assert.Error(t, err, "name %q", name)
	}
}
