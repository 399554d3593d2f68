// Package ledger defines the currency ledger contract. The engine treats
// the ledger as an external collaborator: balances live wherever the
// implementation keeps them, and the game only ever moves whole amounts.
package ledger

import (
	"context"
	"errors"
	"math"
)

// MaxBalance is the largest balance a ledger implementation is required
// to represent. Deposits past it fail with ErrBalanceTooHigh.
const MaxBalance int64 = math.MaxInt64

var (
	// ErrInsufficientFunds is returned by Withdraw and Transfer when the
	// source balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrBalanceTooHigh is returned by Deposit when the deposit would
	// push the balance past MaxBalance.
	ErrBalanceTooHigh = errors.New("ledger: balance too high")
)

// Ledger is the currency account service.
type Ledger interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	Deposit(ctx context.Context, userID string, amount int64) error
	Withdraw(ctx context.Context, userID string, amount int64) error
	Transfer(ctx context.Context, from, to string, amount int64) error
}

// DepositCapped deposits amount, saturating the balance at MaxBalance
// instead of failing when the ledger reports ErrBalanceTooHigh.
func DepositCapped(ctx context.Context, l Ledger, userID string, amount int64) error {
	err := l.Deposit(ctx, userID, amount)
	if !errors.Is(err, ErrBalanceTooHigh) {
		return err
	}
	bal, err := l.GetBalance(ctx, userID)
	if err != nil {
		return err
	}
	if bal >= MaxBalance {
		return nil
	}
	return l.Deposit(ctx, userID, MaxBalance-bal)
}
