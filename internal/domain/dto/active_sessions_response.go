package dto

// ActiveSessionsResponse структура для отчета по активным тестам
type ActiveSessionsResponse struct {
	TotalActiveUsers int `json:"total_active_users"`
	ActiveTimers     int `json:"active_timers"`
}
