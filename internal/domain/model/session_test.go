package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityShuffler оставляет порядок вариантов как есть
type identityShuffler struct{}

func (identityShuffler) Shuffle(int, func(i, j int)) {}

func newTestSession(t *testing.T, correct ...[]int) *Session {
	t.Helper()
	questions := make([]*Question, 0, len(correct))
	for _, c := range correct {
		d, err := NewDraft("Вопрос", []string{"A", "B", "C", "D"}, c, DifficultyBasic)
		require.NoError(t, err)
		questions = append(questions, d.Shuffle(identityShuffler{}))
	}
	s, err := NewSession(SessionParams{
		Questions:      questions,
		Taker:          Taker{TelegramID: 1, FullName: "Иванов Иван", Position: "пристав", Department: "ОУПДС"},
		Specialization: "upravlenie",
		Difficulty:     DifficultyBasic,
	})
	require.NoError(t, err)
	return s
}

func TestNewSession_StartIndexOutOfRange(t *testing.T) {
	q := mustDraft(t, "Вопрос", []string{"A", "B", "C"}, 1).Shuffle(identityShuffler{})

	for _, idx := range []int{-1, 1, 5} {
		_, err := NewSession(SessionParams{Questions: []*Question{q}, StartIndex: idx})
		assert.True(t, errors.Is(err, ErrValidation), "index %d", idx)
	}

	s, err := NewSession(SessionParams{Questions: []*Question{q}})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.False(t, s.StartedAt().IsZero())
}

func TestNewSession_NilQuestion(t *testing.T) {
	_, err := NewSession(SessionParams{Questions: []*Question{nil}})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSession_Toggle(t *testing.T) {
	s := newTestSession(t, []int{1})

	require.NoError(t, s.Toggle(2))
	require.NoError(t, s.Toggle(4))
	require.NoError(t, s.Toggle(1))
	assert.Equal(t, []int{1, 2, 4}, s.Selected().Sorted())

	require.NoError(t, s.Toggle(2))
	assert.Equal(t, []int{1, 4}, s.Selected().Sorted())

	assert.Error(t, s.Toggle(0))
	assert.Error(t, s.Toggle(5))
}

func TestSession_SaveLoadRoundTrip(t *testing.T) {
	s := newTestSession(t, []int{1}, []int{2})

	require.NoError(t, s.Toggle(3))
	require.NoError(t, s.Toggle(1))
	require.NoError(t, s.SaveAnswer(0))

	require.NoError(t, s.LoadAnswer(1))
	assert.Empty(t, s.Selected())

	require.NoError(t, s.LoadAnswer(0))
	assert.True(t, s.Selected().Equal(NewSelection(1, 3)))

	saved, ok := s.Answer(0)
	require.True(t, ok)
	assert.True(t, saved.Equal(NewSelection(3, 1)))

	assert.Error(t, s.SaveAnswer(2))
	assert.Error(t, s.LoadAnswer(-1))
}

func TestSession_HistoryIsFrozenCopy(t *testing.T) {
	s := newTestSession(t, []int{1})

	require.NoError(t, s.Toggle(1))
	require.NoError(t, s.SaveAnswer(0))
	require.NoError(t, s.Toggle(2))

	saved, _ := s.Answer(0)
	assert.Equal(t, []int{1}, saved.Sorted())
}

func TestSession_Navigation(t *testing.T) {
	s := newTestSession(t, []int{1}, []int{2}, []int{3})

	require.NoError(t, s.Toggle(1))
	require.True(t, s.Next())
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Empty(t, s.Selected())

	require.NoError(t, s.Toggle(2))
	require.True(t, s.Prev())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, []int{1}, s.Selected().Sorted())

	require.True(t, s.Next())
	assert.Equal(t, []int{2}, s.Selected().Sorted())

	require.True(t, s.Next())
	assert.True(t, s.IsLast())
	require.NoError(t, s.Toggle(3))
	assert.False(t, s.Next())
	assert.Equal(t, 2, s.CurrentIndex())

	saved, ok := s.Answer(2)
	require.True(t, ok)
	assert.Equal(t, []int{3}, saved.Sorted())

	assert.False(t, s.Prev() && s.Prev() && s.Prev())
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestSession_View(t *testing.T) {
	s := newTestSession(t, []int{2}, []int{3})
	require.NoError(t, s.Toggle(4))

	view, ok := s.View()
	require.True(t, ok)
	assert.Equal(t, 1, view.Number)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "Вопрос", view.Prompt)
	assert.Equal(t, []string{"A", "B", "C", "D"}, view.Options)
	assert.Equal(t, []int{4}, view.Selected)
}

func TestSession_EmptyQuestions(t *testing.T) {
	s, err := NewSession(SessionParams{})
	require.NoError(t, err)

	assert.Nil(t, s.Current())
	assert.False(t, s.Next())
	assert.Error(t, s.Toggle(1))
	_, ok := s.View()
	assert.False(t, ok)

	res := s.CalculateResults()
	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 0, res.TotalQuestions)
	assert.Equal(t, 0.0, res.Percentage)
	assert.Equal(t, GradeUnsatisfactory, res.Grade)
}

func TestSession_ResultsWithEmptyHistory(t *testing.T) {
	s := newTestSession(t, []int{1}, []int{2})

	_, finished := s.Result()
	assert.False(t, finished)

	res := s.CalculateResults()
	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 2, res.TotalQuestions)
	assert.Equal(t, 0.0, res.Percentage)

	_, finished = s.Result()
	assert.True(t, finished)
}

func TestSession_EndToEnd(t *testing.T) {
	s := newTestSession(t, []int{2}, []int{1, 3}, []int{4})

	require.NoError(t, s.Toggle(2))
	require.True(t, s.Next())
	require.NoError(t, s.Toggle(1))
	require.NoError(t, s.Toggle(3))
	require.True(t, s.Next())
	require.NoError(t, s.Toggle(1))
	require.False(t, s.Next())

	res := s.Finish(s.StartedAt().Add(65*time.Minute + 7*time.Second))
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.InDelta(t, 66.7, res.Percentage, 0.05)
	assert.Equal(t, GradeSatisfactory, res.Grade)
	assert.Equal(t, "65:07", res.ElapsedTime)

	review := s.Review()
	require.Len(t, review, 3)
	assert.Equal(t, ReviewItem{Number: 1, Correct: []int{2}, Selected: []int{2}, Matched: true}, review[0])
	assert.Equal(t, ReviewItem{Number: 2, Correct: []int{1, 3}, Selected: []int{1, 3}, Matched: true}, review[1])
	assert.Equal(t, ReviewItem{Number: 3, Correct: []int{4}, Selected: []int{1}, Matched: false}, review[2])
}

func TestSession_PartiallyAnswered(t *testing.T) {
	s := newTestSession(t, []int{1}, []int{2}, []int{3}, []int{4})

	require.NoError(t, s.Toggle(1))
	require.True(t, s.Next())

	res := s.CalculateResults()
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 25.0, res.Percentage)
	assert.Equal(t, GradeUnsatisfactory, res.Grade)
}
