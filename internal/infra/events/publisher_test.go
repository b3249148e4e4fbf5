package events

import (
	"bytes"
	"encoding/json"
	"log"
	"testing"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_TestFinished(t *testing.T) {
	rec := model.TestRecord{
		ID:             "rec-1",
		SessionID:      "sess-1",
		Taker:          model.Taker{TelegramID: 77, FullName: "Иванов"},
		Specialization: "oupds",
		Difficulty:     model.DifficultyBasic,
		Result: model.Result{
			CorrectCount:   2,
			TotalQuestions: 3,
			Percentage:     66.7,
			Grade:          model.GradeSatisfactory,
			Elapsed:        5 * time.Minute,
			ElapsedTime:    "05:00",
		},
	}
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	body, err := Encode(TestFinished, NewTestFinishedPayload(rec), at)
	require.NoError(t, err)

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			RecordID string `json:"record_id"`
			Taker    struct {
				TelegramID int64 `json:"telegram_id"`
			} `json:"taker"`
			Difficulty string `json:"difficulty"`
			Result     struct {
				Grade       string `json:"grade"`
				ElapsedTime string `json:"elapsed_time"`
			} `json:"result"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, "test.finished", decoded.Type)
	assert.Equal(t, "rec-1", decoded.Payload.RecordID)
	assert.Equal(t, int64(77), decoded.Payload.Taker.TelegramID)
	assert.Equal(t, "basic", decoded.Payload.Difficulty)
	assert.Equal(t, "удовлетворительно", decoded.Payload.Result.Grade)
	assert.Equal(t, "05:00", decoded.Payload.Result.ElapsedTime)
}

func TestNopPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewNopPublisher(log.New(&buf, "", 0))

	require.NoError(t, p.Publish(TestFinished, map[string]int{"score": 1}))
	p.Close()
	assert.Contains(t, buf.String(), "test.finished")
}
