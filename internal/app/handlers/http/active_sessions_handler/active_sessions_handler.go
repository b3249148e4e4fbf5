package active_sessions_handler

import (
	"net/http"

	"github.com/IT-Nick/assessment-bot/internal/domain/dto"
	httpError "github.com/IT-Nick/assessment-bot/pkg/http"
)

// Counter считает активных пользователей или таймеры
type Counter interface {
	Active() int
}

// ActiveSessionsHandler структура для обработчика GET /sessions/active
type ActiveSessionsHandler struct {
	sessions Counter
	timers   Counter
}

// NewActiveSessionsHandler создает новый экземпляр обработчика
func NewActiveSessionsHandler(sessions, timers Counter) *ActiveSessionsHandler {
	return &ActiveSessionsHandler{sessions: sessions, timers: timers}
}

// ServeHTTP метод для обработки запроса
func (h *ActiveSessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpError.JSONResponse(w, http.StatusOK, dto.ActiveSessionsResponse{
		TotalActiveUsers: h.sessions.Active(),
		ActiveTimers:     h.timers.Active(),
	})
}
