package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeFor_Boundaries(t *testing.T) {
	testCases := []struct {
		percentage float64
		want       Grade
	}{
		{100, GradeExcellent},
		{90.0, GradeExcellent},
		{89.9, GradeGood},
		{75.0, GradeGood},
		{74.9, GradeSatisfactory},
		{60.0, GradeSatisfactory},
		{59.9, GradeUnsatisfactory},
		{0, GradeUnsatisfactory},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, GradeFor(tc.percentage), "percentage %.1f", tc.percentage)
	}
}

func TestGrade_String(t *testing.T) {
	assert.Equal(t, "отлично", GradeExcellent.String())
	assert.Equal(t, "хорошо", GradeGood.String())
	assert.Equal(t, "удовлетворительно", GradeSatisfactory.String())
	assert.Equal(t, "неудовлетворительно", GradeUnsatisfactory.String())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", FormatElapsed(0))
	assert.Equal(t, "00:00", FormatElapsed(-time.Second))
	assert.Equal(t, "00:59", FormatElapsed(59*time.Second+900*time.Millisecond))
	assert.Equal(t, "01:00", FormatElapsed(time.Minute))
	assert.Equal(t, "125:03", FormatElapsed(125*time.Minute+3*time.Second))
}

func TestLevels(t *testing.T) {
	_, err := NewLevels(map[Difficulty]Level{
		DifficultyBasic: {Questions: 10, Duration: time.Minute},
	})
	assert.Error(t, err, "missing levels must be rejected")

	full := map[Difficulty]Level{
		DifficultyReserve:  {Questions: 5, Duration: time.Minute},
		DifficultyBasic:    {Questions: 10, Duration: time.Minute},
		DifficultyStandard: {Questions: 15, Duration: time.Minute},
		DifficultyAdvanced: {Questions: 0, Duration: time.Minute},
	}
	_, err = NewLevels(full)
	assert.Error(t, err, "zero question count must be rejected")

	full[DifficultyAdvanced] = Level{Questions: 20, Duration: time.Minute}
	levels, err := NewLevels(full)
	require.NoError(t, err)

	full[DifficultyBasic] = Level{Questions: 99, Duration: time.Minute}
	basic, err := levels.Lookup(DifficultyBasic)
	require.NoError(t, err)
	assert.Equal(t, 10, basic.Questions, "table must not change after construction")

	_, err = levels.Lookup("expert")
	assert.Error(t, err)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("standard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyStandard, d)

	d, err = ParseDifficulty("продвинутый")
	require.NoError(t, err)
	assert.Equal(t, DifficultyAdvanced, d)

	_, err = ParseDifficulty("hard")
	assert.Error(t, err)
}
