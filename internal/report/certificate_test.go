package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificate_CoreFont(t *testing.T) {
	g := NewGenerator("")

	pdf, err := g.Certificate(CertificateData{
		Taker:          model.Taker{TelegramID: 1, FullName: "Иванов Иван", Position: "пристав", Department: "ОУПДС"},
		Specialization: "oupds",
		Difficulty:     model.DifficultyStandard,
		Result: model.Result{
			CorrectCount:   2,
			TotalQuestions: 3,
			Percentage:     66.7,
			Grade:          model.GradeSatisfactory,
			ElapsedTime:    "05:07",
		},
		Review: []model.ReviewItem{
			{Number: 1, Correct: []int{1}, Selected: []int{1}, Matched: true},
			{Number: 2, Correct: []int{1, 3}, Selected: nil},
		},
		IssuedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestCertificate_MissingFontDirFallsBack(t *testing.T) {
	pdf, err := NewGenerator(t.TempDir()).Certificate(CertificateData{Specialization: "aliment"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestCertificate_VerificationQR(t *testing.T) {
	d := CertificateData{
		Taker:          model.Taker{TelegramID: 42},
		Specialization: "oupds",
		Difficulty:     model.DifficultyBasic,
		Result:         model.Result{CorrectCount: 2, TotalQuestions: 3, Grade: model.GradeSatisfactory},
		SessionID:      "sess-1",
	}
	assert.Equal(t, "session=sess-1;taker=42;spec=oupds;level=basic;score=2/3;grade=удовлетворительно", VerificationCode(d))

	withQR, err := NewGenerator("").Certificate(d)
	require.NoError(t, err)
	d.SessionID = ""
	plain, err := NewGenerator("").Certificate(d)
	require.NoError(t, err)
	assert.Greater(t, len(withQR), len(plain))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "certificate_oupds.pdf", FileName("oupds"))
}

func TestJoinNumbers(t *testing.T) {
	assert.Equal(t, "-", joinNumbers(nil))
	assert.Equal(t, "1, 3", joinNumbers([]int{1, 3}))
}
