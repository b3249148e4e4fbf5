package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "BOT_MODE", "STATS_DSN", "DEBUG", "POLL_INTERVAL"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_ExampleFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := LoadConfig(filepath.Join("..", "..", "..", DefaultPath))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramBot.Token)
	assert.Equal(t, ModePolling, cfg.TelegramBot.Mode)
	assert.Equal(t, 2*time.Second, cfg.TelegramBot.PollInterval)
	assert.Equal(t, "ОУПДС", cfg.SpecializationTitle("oupds"))
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)

	levels, err := cfg.Levels()
	require.NoError(t, err)
	advanced, err := levels.Lookup(model.DifficultyAdvanced)
	require.NoError(t, err)
	assert.Equal(t, model.Level{Questions: 50, Duration: 50 * time.Minute}, advanced)
}

func TestLoadConfig_EnvOverridesAndDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATS_DSN", "file::memory:")
	t.Setenv("POLL_INTERVAL", "5")

	cfg, err := LoadConfig(writeConfig(t, `
telegram_bot:
  token: "file-token"
`))
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.TelegramBot.Token)
	assert.Equal(t, "file::memory:", cfg.Stats.DSN)
	assert.Equal(t, 5*time.Second, cfg.TelegramBot.PollInterval)
	assert.Equal(t, SourceFiles, cfg.Questions.Source)
	assert.Equal(t, "sqlite", cfg.Stats.Driver)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	levels, err := cfg.Levels()
	require.NoError(t, err)
	reserve, err := levels.Lookup(model.DifficultyReserve)
	require.NoError(t, err)
	assert.Equal(t, 20, reserve.Questions)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"no token", `telegram_bot: {mode: polling}`},
		{"unknown mode", `telegram_bot: {token: t, mode: carrier-pigeon}`},
		{"webhook without url", `telegram_bot: {token: t, mode: webhook}`},
		{"unknown source", "telegram_bot: {token: t}\nquestions: {source: ftp}"},
		{"unknown difficulty", "telegram_bot: {token: t}\ndifficulties: {expert: {questions: 5, duration_minutes: 5}}"},
		{"missing level", "telegram_bot: {token: t}\ndifficulties: {basic: {questions: 5, duration_minutes: 5}}"},
		{"zero questions", `telegram_bot: {token: t}
difficulties:
  reserve: {questions: 0, duration_minutes: 5}
  basic: {questions: 5, duration_minutes: 5}
  standard: {questions: 5, duration_minutes: 5}
  advanced: {questions: 5, duration_minutes: 5}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadConfig(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}
