package ledger

import (
	"context"
	"sync"
)

// Mock is an in-memory Ledger for tests.
type Mock struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewMock() *Mock {
	return &Mock{balances: make(map[string]int64)}
}

func (m *Mock) GetBalance(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *Mock) Deposit(ctx context.Context, userID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal := m.balances[userID]
	if amount > MaxBalance-bal {
		return ErrBalanceTooHigh
	}
	m.balances[userID] = bal + amount
	return nil
}

func (m *Mock) Withdraw(ctx context.Context, userID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[userID] < amount {
		return ErrInsufficientFunds
	}
	m.balances[userID] -= amount
	return nil
}

func (m *Mock) Transfer(ctx context.Context, from, to string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[from] < amount {
		return ErrInsufficientFunds
	}
	if amount > MaxBalance-m.balances[to] {
		return ErrBalanceTooHigh
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}

// SetBalance seeds an account directly.
func (m *Mock) SetBalance(userID string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = amount
}
