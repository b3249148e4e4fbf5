package model

import (
	"fmt"
	"time"
)

// Difficulty уровень сложности теста
type Difficulty string

const (
	DifficultyReserve  Difficulty = "reserve"
	DifficultyBasic    Difficulty = "basic"
	DifficultyStandard Difficulty = "standard"
	DifficultyAdvanced Difficulty = "advanced"
)

// Difficulties перечисляет уровни в порядке возрастания сложности
var Difficulties = []Difficulty{
	DifficultyReserve,
	DifficultyBasic,
	DifficultyStandard,
	DifficultyAdvanced,
}

var difficultyTitles = map[Difficulty]string{
	DifficultyReserve:  "резерв",
	DifficultyBasic:    "базовый",
	DifficultyStandard: "стандартный",
	DifficultyAdvanced: "продвинутый",
}

// ParseDifficulty принимает как английское имя уровня, так и русское название
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if s == string(d) || s == difficultyTitles[d] {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) Valid() bool {
	_, ok := difficultyTitles[d]
	return ok
}

// Title возвращает название уровня для показа пользователю
func (d Difficulty) Title() string {
	if t, ok := difficultyTitles[d]; ok {
		return t
	}
	return string(d)
}

// Level параметры уровня сложности: сколько вопросов отбирать и сколько времени дается на тест
type Level struct {
	Questions int
	Duration  time.Duration
}

// Levels неизменяемая таблица уровней сложности.
// Создается один раз из конфигурации и передается в загрузчик и таймер.
type Levels struct {
	levels map[Difficulty]Level
}

// NewLevels проверяет таблицу и возвращает ее копию.
// Каждый уровень из Difficulties должен присутствовать, количество вопросов и длительность должны быть положительными.
func NewLevels(levels map[Difficulty]Level) (Levels, error) {
	copied := make(map[Difficulty]Level, len(levels))
	for _, d := range Difficulties {
		l, ok := levels[d]
		if !ok {
			return Levels{}, fmt.Errorf("difficulty %s is not configured", d)
		}
		if l.Questions <= 0 {
			return Levels{}, fmt.Errorf("difficulty %s: question count must be positive, got %d", d, l.Questions)
		}
		if l.Duration <= 0 {
			return Levels{}, fmt.Errorf("difficulty %s: duration must be positive, got %s", d, l.Duration)
		}
		copied[d] = l
	}
	for d := range levels {
		if !d.Valid() {
			return Levels{}, fmt.Errorf("unknown difficulty %q in levels table", d)
		}
	}
	return Levels{levels: copied}, nil
}

// DefaultLevels таблица по умолчанию, используется если в конфигурации уровни не заданы
func DefaultLevels() Levels {
	return Levels{levels: map[Difficulty]Level{
		DifficultyReserve:  {Questions: 20, Duration: 20 * time.Minute},
		DifficultyBasic:    {Questions: 30, Duration: 30 * time.Minute},
		DifficultyStandard: {Questions: 40, Duration: 40 * time.Minute},
		DifficultyAdvanced: {Questions: 50, Duration: 50 * time.Minute},
	}}
}

// Lookup возвращает параметры уровня. Ошибка означает неверную конфигурацию, а не плохие данные.
func (l Levels) Lookup(d Difficulty) (Level, error) {
	level, ok := l.levels[d]
	if !ok {
		return Level{}, fmt.Errorf("difficulty %q is not configured", d)
	}
	return level, nil
}
