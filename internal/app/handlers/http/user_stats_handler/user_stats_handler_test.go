package user_stats_handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/dto"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStats struct {
	stats *model.UserStats
	err   error
}

func (s stubStats) UserStats(_ context.Context, id int64) (*model.UserStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	st := *s.stats
	st.TelegramID = id
	return &st, nil
}

func serve(t *testing.T, provider StatsProvider, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/users/{telegramID}/stats", NewUserStatsHandler(provider))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestUserStatsHandler(t *testing.T) {
	provider := stubStats{stats: &model.UserStats{
		TotalTests:    1,
		AvgPercentage: 66.7,
		BestResult:    66.7,
		WorstResult:   66.7,
		RecentTests: []model.RecentResult{{
			Specialization: "oupds",
			Difficulty:     model.DifficultyBasic,
			Grade:          "удовлетворительно",
			Percentage:     66.7,
			FinishedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}},
	}}

	rec := serve(t, provider, "/users/42/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body dto.UserStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.TelegramID)
	assert.Equal(t, 1, body.TotalTests)
	require.Len(t, body.RecentTests, 1)
	assert.Equal(t, "basic", body.RecentTests[0].Difficulty)
	assert.Equal(t, "2025-01-02T03:04:05Z", body.RecentTests[0].FinishedAt)
}

func TestUserStatsHandler_Errors(t *testing.T) {
	rec := serve(t, stubStats{stats: &model.UserStats{}}, "/users/abc/stats")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, stubStats{err: errors.New("db is down")}, "/users/5/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "db is down")
}
