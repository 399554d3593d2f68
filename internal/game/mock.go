package game

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockPrompter is a scriptable Prompter for tests. Sent messages are
// recorded; Await calls pop from queued replies and time out (ok=false)
// when the queue is empty.
type MockPrompter struct {
	mu        sync.Mutex
	sent      []string
	reactions []Reaction
	messages  []string
	nextID    int
}

var _ Prompter = (*MockPrompter)(nil)

func NewMockPrompter() *MockPrompter {
	return &MockPrompter{}
}

// QueueReaction stages a reaction for the next AwaitReaction call.
func (m *MockPrompter) QueueReaction(userID, emoji string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reactions = append(m.reactions, Reaction{UserID: userID, Emoji: emoji})
}

// QueueMessage stages a reply for the next AwaitMessage call.
func (m *MockPrompter) QueueMessage(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, content)
}

// Sent returns a copy of every message sent so far.
func (m *MockPrompter) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MockPrompter) SendMessage(ctx context.Context, channel, content string) (MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, content)
	m.nextID++
	return MessageRef{Channel: channel, ID: fmt.Sprintf("msg-%d", m.nextID)}, nil
}

func (m *MockPrompter) AwaitReaction(ctx context.Context, msg MessageRef, allowed []string, timeout time.Duration) (Reaction, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.reactions) == 0 {
		return Reaction{}, false, nil
	}
	r := m.reactions[0]
	m.reactions = m.reactions[1:]
	return r, true, nil
}

func (m *MockPrompter) AwaitMessage(ctx context.Context, match func(userID, content string) bool, timeout time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return "", false, nil
	}
	msg := m.messages[0]
	m.messages = m.messages[1:]
	return msg, true, nil
}
