package dto

import "github.com/IT-Nick/assessment-bot/internal/domain/model"

// UserStatsResponse структура для отчета по результатам пользователя
type UserStatsResponse struct {
	TelegramID    int64          `json:"telegram_id"`
	TotalTests    int            `json:"total_tests"`
	AvgPercentage float64        `json:"avg_percentage"`
	BestResult    float64        `json:"best_result"`
	WorstResult   float64        `json:"worst_result"`
	RecentTests   []RecentResult `json:"recent_tests"`
}

type RecentResult struct {
	Specialization string  `json:"specialization"`
	Difficulty     string  `json:"difficulty"`
	Grade          string  `json:"grade"`
	Percentage     float64 `json:"percentage"`
	FinishedAt     string  `json:"finished_at"`
}

// NewUserStatsResponse переводит статистику в ответ API
func NewUserStatsResponse(s *model.UserStats) UserStatsResponse {
	resp := UserStatsResponse{
		TelegramID:    s.TelegramID,
		TotalTests:    s.TotalTests,
		AvgPercentage: s.AvgPercentage,
		BestResult:    s.BestResult,
		WorstResult:   s.WorstResult,
		RecentTests:   make([]RecentResult, 0, len(s.RecentTests)),
	}
	for _, r := range s.RecentTests {
		resp.RecentTests = append(resp.RecentTests, RecentResult{
			Specialization: r.Specialization,
			Difficulty:     string(r.Difficulty),
			Grade:          r.Grade,
			Percentage:     r.Percentage,
			FinishedAt:     r.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return resp
}
