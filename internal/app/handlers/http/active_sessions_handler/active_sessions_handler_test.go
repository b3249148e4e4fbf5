package active_sessions_handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedCounter int

func (c fixedCounter) Active() int { return int(c) }

func TestActiveSessionsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewActiveSessionsHandler(fixedCounter(3), fixedCounter(2)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/active", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_active_users": 3, "active_timers": 2}`, rec.Body.String())
}
