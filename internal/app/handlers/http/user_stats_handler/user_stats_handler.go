package user_stats_handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/IT-Nick/assessment-bot/internal/domain/dto"
	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	httpError "github.com/IT-Nick/assessment-bot/pkg/http"
	"github.com/go-chi/chi/v5"
)

// StatsProvider источник статистики пользователя
type StatsProvider interface {
	UserStats(ctx context.Context, telegramID int64) (*model.UserStats, error)
}

// UserStatsHandler структура для обработчика GET /users/{telegramID}/stats
type UserStatsHandler struct {
	stats StatsProvider
}

// NewUserStatsHandler создает новый экземпляр обработчика
func NewUserStatsHandler(stats StatsProvider) *UserStatsHandler {
	return &UserStatsHandler{stats: stats}
}

// ServeHTTP метод для обработки запроса
func (h *UserStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(chi.URLParam(r, "telegramID"), 10, 64)
	if err != nil || telegramID <= 0 {
		httpError.ErrorResponse(w, http.StatusBadRequest, "Invalid telegram id")
		return
	}

	stats, err := h.stats.UserStats(r.Context(), telegramID)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get stats: %v", err))
		return
	}

	httpError.JSONResponse(w, http.StatusOK, dto.NewUserStatsResponse(stats))
}
