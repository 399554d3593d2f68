// Package locks serializes per-user mutations. Every read-modify-write of
// a character record or balance runs under that user's lock so concurrent
// commands cannot interleave their load/save cycles.
package locks

import "sync"

// Manager hands out one mutex per user. Locks are created lazily and
// never removed; the population is bounded by the user base.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager() *Manager {
	return &Manager{locks: make(map[string]*sync.Mutex)}
}

func (m *Manager) lock(userID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	return l
}

// Do runs fn while holding userID's lock.
func (m *Manager) Do(userID string, fn func() error) error {
	l := m.lock(userID)
	l.Lock()
	defer l.Unlock()
	return fn()
}
