package model

import "time"

// TestRecord сохраненный результат одного прохождения теста
type TestRecord struct {
	ID             string
	SessionID      string
	Taker          Taker
	Specialization string
	Difficulty     Difficulty
	Result         Result
	FinishedAt     time.Time
}

// RecentResult краткая запись о недавнем тесте
type RecentResult struct {
	Specialization string     `json:"specialization"`
	Difficulty     Difficulty `json:"difficulty"`
	Grade          string     `json:"grade"`
	Percentage     float64    `json:"percentage"`
	FinishedAt     time.Time  `json:"finished_at"`
}

// UserStats статистика тестируемого
type UserStats struct {
	TelegramID    int64          `json:"telegram_id"`
	TotalTests    int            `json:"total_tests"`
	AvgPercentage float64        `json:"avg_percentage"`
	BestResult    float64        `json:"best_result"`
	WorstResult   float64        `json:"worst_result"`
	RecentTests   []RecentResult `json:"recent_tests"`
}
