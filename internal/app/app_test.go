package app

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/app/state"
	"github.com/IT-Nick/assessment-bot/internal/domain/dto"
	statsRepo "github.com/IT-Nick/assessment-bot/internal/domain/stats/repository"
	statsService "github.com/IT-Nick/assessment-bot/internal/domain/stats/service"
	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"github.com/IT-Nick/assessment-bot/internal/infra/db"
	"github.com/IT-Nick/assessment-bot/internal/infra/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()

	conn, err := db.Open(ctx, db.DriverSQLite, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	repo := statsRepo.NewStatsRepository(conn)
	require.NoError(t, repo.EnsureSchema(ctx))

	quiet := log.New(io.Discard, "", 0)
	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}

	app := &App{
		config: cfg,
		logger: quiet,
		states: state.NewStore(),
		timers: timer.NewManager(time.Second, quiet),
	}
	app.statsService = statsService.NewStatsService(repo)
	return app
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter(t *testing.T) {
	app := newTestApp(t)
	router := app.Router()

	rec := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	_ = app.states.Update(3, func(st *state.FlowState) error {
		st.Step = state.StepAnswering
		return nil
	})
	rec = get(t, router, "/sessions/active")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_active_users":1,"active_timers":0}`, rec.Body.String())

	rec = get(t, router, "/users/3/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats dto.UserStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.TelegramID)
	assert.Zero(t, stats.TotalTests)
	assert.NotNil(t, stats.RecentTests)

	rec = get(t, router, "/users/x/stats")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/active", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	router := newTestApp(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
