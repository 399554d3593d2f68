package storage

import (
	"context"
	"sync"

	"github.com/wuggawugga/adventurebot/pkg/character"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu         sync.RWMutex
	characters map[string][]byte
	guilds     map[string]*GuildSettings
	pingError  error
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		characters: make(map[string][]byte),
		guilds:     make(map[string]*GuildSettings),
	}
}

// SetPingError configures the mock to fail on ping with the given error.
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStore) Close() error { return nil }

func (m *MockStore) GetCharacter(ctx context.Context, userID string) (*character.Character, error) {
	m.mu.RLock()
	data, ok := m.characters[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return character.Unmarshal(data)
}

func (m *MockStore) SaveCharacter(ctx context.Context, c *character.Character) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.characters[c.UserID] = data
	m.mu.Unlock()
	return nil
}

// SeedCharacterData writes a raw record, bypassing Marshal. Lets tests
// stage legacy or corrupt payloads.
func (m *MockStore) SeedCharacterData(userID string, data []byte) {
	m.mu.Lock()
	m.characters[userID] = data
	m.mu.Unlock()
}

func (m *MockStore) GetGuildSettings(ctx context.Context, guildID string) (*GuildSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.guilds[guildID]
	if !ok {
		return nil, nil
	}
	cp := *gs
	return &cp, nil
}

func (m *MockStore) SaveGuildSettings(ctx context.Context, gs *GuildSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *gs
	m.guilds[gs.GuildID] = &cp
	return nil
}
