package model

import (
	"strings"
	"unicode/utf8"
)

const (
	MinOptions      = 3
	MaxOptions      = 6
	MaxPromptLength = 2000
)

// Draft проверенный, но еще не перемешанный вопрос.
// В сессию попадает только результат Shuffle.
type Draft struct {
	prompt     string
	options    []string
	correct    Selection
	difficulty Difficulty
}

// NewDraft проверяет текст вопроса, варианты и номера правильных ответов (с 1).
// Повторяющиеся номера схлопываются.
func NewDraft(prompt string, options []string, correct []int, difficulty Difficulty) (*Draft, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, validationErrorf("prompt", "must not be empty")
	}
	if n := utf8.RuneCountInString(prompt); n > MaxPromptLength {
		return nil, validationErrorf("prompt", "length %d exceeds %d", n, MaxPromptLength)
	}
	if len(options) < MinOptions || len(options) > MaxOptions {
		return nil, validationErrorf("options", "expected %d..%d options, got %d", MinOptions, MaxOptions, len(options))
	}
	if len(correct) == 0 {
		return nil, validationErrorf("correct", "at least one correct answer is required")
	}
	for _, c := range correct {
		if c < 1 || c > len(options) {
			return nil, validationErrorf("correct", "index %d out of range 1..%d", c, len(options))
		}
	}
	if !difficulty.Valid() {
		return nil, validationErrorf("difficulty", "unknown difficulty %q", difficulty)
	}

	return &Draft{
		prompt:     prompt,
		options:    append([]string(nil), options...),
		correct:    NewSelection(correct...),
		difficulty: difficulty,
	}, nil
}

// Correct номера правильных ответов в исходном порядке вариантов
func (d *Draft) Correct() Selection {
	return d.correct.Clone()
}

// Shuffle создает вопрос с перемешанными вариантами. Черновик при этом не меняется.
func (d *Draft) Shuffle(rng Shuffler) *Question {
	q := &Question{
		prompt:     d.prompt,
		options:    append([]string(nil), d.options...),
		correct:    d.correct.Clone(),
		difficulty: d.difficulty,
	}
	q.Shuffle(rng)
	return q
}

// Question вопрос, варианты которого перемешаны хотя бы один раз.
// Номера правильных ответов всегда указывают на текущий порядок вариантов.
type Question struct {
	prompt     string
	options    []string
	correct    Selection
	difficulty Difficulty

	// originalOptions фиксируется при первом перемешивании и больше не меняется
	originalOptions []string
	// permutation[i] - индекс (с 0), с которого пришел вариант на позиции i при последнем перемешивании
	permutation []int
}

// Shuffle перемешивает варианты и пересчитывает номера правильных ответов.
// Повторные вызовы переставляют текущий порядок, а не исходный.
func (q *Question) Shuffle(rng Shuffler) {
	if q.originalOptions == nil {
		q.originalOptions = append([]string(nil), q.options...)
	}

	n := len(q.options)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	shuffled := make([]string, n)
	oldToNew := make([]int, n)
	for newIdx, oldIdx := range perm {
		shuffled[newIdx] = q.options[oldIdx]
		oldToNew[oldIdx] = newIdx
	}

	correct := make(Selection, len(q.correct))
	for c := range q.correct {
		correct[oldToNew[c-1]+1] = struct{}{}
	}

	q.options = shuffled
	q.correct = correct
	q.permutation = perm
}

func (q *Question) Prompt() string {
	return q.prompt
}

// Options варианты в текущем (перемешанном) порядке
func (q *Question) Options() []string {
	return append([]string(nil), q.options...)
}

func (q *Question) OptionCount() int {
	return len(q.options)
}

func (q *Question) Correct() Selection {
	return q.correct.Clone()
}

func (q *Question) Difficulty() Difficulty {
	return q.difficulty
}

// OriginalOptions варианты в порядке загрузки
func (q *Question) OriginalOptions() []string {
	return append([]string(nil), q.originalOptions...)
}

// Permutation перестановка последнего перемешивания
func (q *Question) Permutation() []int {
	return append([]int(nil), q.permutation...)
}

// IsCorrect ответ засчитывается только при точном совпадении множеств
func (q *Question) IsCorrect(answer Selection) bool {
	return q.correct.Equal(answer)
}
