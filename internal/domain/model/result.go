package model

import (
	"fmt"
	"time"
)

// Grade итоговая оценка за тест
type Grade int

const (
	GradeUnsatisfactory Grade = iota
	GradeSatisfactory
	GradeGood
	GradeExcellent
)

// Пороги оценок в процентах, нижняя граница включается
const (
	ExcellentThreshold    = 90.0
	GoodThreshold         = 75.0
	SatisfactoryThreshold = 60.0
)

var gradeNames = map[Grade]string{
	GradeUnsatisfactory: "неудовлетворительно",
	GradeSatisfactory:   "удовлетворительно",
	GradeGood:           "хорошо",
	GradeExcellent:      "отлично",
}

func (g Grade) String() string {
	if name, ok := gradeNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

func (g Grade) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// GradeFor переводит процент правильных ответов в оценку
func GradeFor(percentage float64) Grade {
	switch {
	case percentage >= ExcellentThreshold:
		return GradeExcellent
	case percentage >= GoodThreshold:
		return GradeGood
	case percentage >= SatisfactoryThreshold:
		return GradeSatisfactory
	default:
		return GradeUnsatisfactory
	}
}

// Result итог прохождения теста
type Result struct {
	CorrectCount   int           `json:"correct_count"`
	TotalQuestions int           `json:"total_questions"`
	Percentage     float64       `json:"percentage"`
	Grade          Grade         `json:"grade"`
	Elapsed        time.Duration `json:"-"`
	ElapsedTime    string        `json:"elapsed_time"`
}

// FormatElapsed форматирует длительность как ММ:СС. Минуты не ограничены сверху.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ReviewItem разбор одного вопроса после завершения теста
type ReviewItem struct {
	Number   int   `json:"number"`
	Correct  []int `json:"correct"`
	Selected []int `json:"selected"`
	Matched  bool  `json:"matched"`
}
