package timer

import (
	"context"
	"log"
	"sync"
	"time"
)

// Hooks обработчики событий таймера. Оба вызываются из горутины таймера.
type Hooks struct {
	// OnTick вызывается раз в интервал с оставшимся временем
	OnTick func(remaining time.Duration)
	// OnTimeout вызывается один раз, когда время вышло
	OnTimeout func()
}

type entry struct {
	cancel   context.CancelFunc
	deadline time.Time
}

// Manager держит не более одного таймера на пользователя
type Manager struct {
	mu       sync.Mutex
	timers   map[int64]*entry
	interval time.Duration
	logger   *log.Logger
}

// NewManager создает менеджер таймеров с заданным интервалом обновления
func NewManager(interval time.Duration, logger *log.Logger) *Manager {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		timers:   make(map[int64]*entry),
		interval: interval,
		logger:   logger,
	}
}

// Start запускает таймер пользователя. Предыдущий таймер этого пользователя останавливается.
func (m *Manager) Start(ctx context.Context, userID int64, duration time.Duration, hooks Hooks) time.Time {
	ctx, cancel := context.WithCancel(ctx)
	e := &entry{cancel: cancel, deadline: time.Now().Add(duration)}

	m.mu.Lock()
	if prev, ok := m.timers[userID]; ok {
		prev.cancel()
	}
	m.timers[userID] = e
	m.mu.Unlock()

	go m.run(ctx, userID, e, hooks)
	return e.deadline
}

// Stop останавливает таймер пользователя. Возвращает false, если таймера не было.
func (m *Manager) Stop(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.timers[userID]
	if !ok {
		return false
	}
	e.cancel()
	delete(m.timers, userID)
	return true
}

// Remaining оставшееся время таймера пользователя
func (m *Manager) Remaining(userID int64) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.timers[userID]
	if !ok {
		return 0, false
	}
	return time.Until(e.deadline), true
}

// Active количество запущенных таймеров
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// release удаляет запись, только если она не была заменена новым таймером
func (m *Manager) release(userID int64, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.timers[userID]; ok && cur == e {
		delete(m.timers, userID)
	}
	e.cancel()
}

func (m *Manager) run(ctx context.Context, userID int64, e *entry, hooks Hooks) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	deadline := time.NewTimer(time.Until(e.deadline))
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			m.release(userID, e)
			m.logger.Printf("Timer canceled for user %d", userID)
			return
		case <-deadline.C:
			m.release(userID, e)
			m.logger.Printf("Time is up for user %d", userID)
			if hooks.OnTimeout != nil {
				hooks.OnTimeout()
			}
			return
		case <-ticker.C:
			remaining := time.Until(e.deadline)
			if remaining <= 0 {
				continue
			}
			if hooks.OnTick != nil {
				hooks.OnTick(remaining)
			}
		}
	}
}
