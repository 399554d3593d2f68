package adventure

import (
	"errors"
	"sync"
)

// ErrAdventureRunning means a guild already has an active session.
var ErrAdventureRunning = errors.New("adventure already running in this guild")

// Registry is the process-wide mapping from guild to its single active
// session. Sessions are registered when an adventure starts and removed
// synchronously when resolution finishes.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Begin registers s as its guild's active session. It fails with
// ErrAdventureRunning if the guild already has one.
func (r *Registry) Begin(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.GuildID]; exists {
		return ErrAdventureRunning
	}
	r.sessions[s.GuildID] = s
	return nil
}

// Get returns the guild's active session, if any.
func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// End removes the guild's session unconditionally. Removing an absent
// session is a no-op.
func (r *Registry) End(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}
