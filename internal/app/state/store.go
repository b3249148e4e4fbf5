package state

import (
	"sync"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
)

// Step шаг диалога с тестируемым
type Step string

const (
	StepIdle       Step = "idle"
	StepFullName   Step = "full_name"
	StepPosition   Step = "position"
	StepDepartment Step = "department"
	StepDifficulty Step = "difficulty"
	StepAnswering  Step = "answering"
	StepFinished   Step = "finished"
)

// FlowState состояние диалога одного пользователя
type FlowState struct {
	Step           Step
	Specialization string
	Taker          model.Taker
	Session        *model.Session
	// QuestionMessageID сообщение с текущим вопросом, редактируется при навигации
	QuestionMessageID int
	// TimerMessageID сообщение с обратным отсчетом
	TimerMessageID int
}

// Reset возвращает состояние к началу, сохраняя выбранную специализацию
func (s *FlowState) Reset() {
	*s = FlowState{Step: StepIdle, Specialization: s.Specialization}
}

type entry struct {
	mu    sync.Mutex
	state FlowState
}

// Store хранит состояния в памяти. Изменения одного пользователя сериализуются,
// разные пользователи не блокируют друг друга.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

func (s *Store) entry(userID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{state: FlowState{Step: StepIdle}}
		s.entries[userID] = e
	}
	return e
}

// Get возвращает копию состояния. Session при этом остается общим указателем,
// менять ее можно только внутри Update.
func (s *Store) Get(userID int64) FlowState {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Update выполняет fn под блокировкой пользователя. Если fn вернула ошибку,
// изменения все равно сохраняются: fn работает с самим состоянием, а не с копией.
func (s *Store) Update(userID int64, fn func(st *FlowState) error) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.state)
}

// Delete удаляет состояние пользователя
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Active количество пользователей, которые сейчас отвечают на вопросы
func (s *Store) Active() int {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	active := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.state.Step == StepAnswering {
			active++
		}
		e.mu.Unlock()
	}
	return active
}
