package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/wuggawugga/adventurebot/pkg/ledger"
)

// RedisLedger keeps currency balances in Redis under balance:<user>.
// Callers serialize per-user mutations through the lock manager, so the
// get-then-set in Deposit does not need a transaction.
type RedisLedger struct {
	client *redis.Client
	logger *slog.Logger
}

var _ ledger.Ledger = (*RedisLedger)(nil)

func NewRedisLedger(client *redis.Client, logger *slog.Logger) *RedisLedger {
	return &RedisLedger{client: client, logger: logger}
}

func balanceKey(userID string) string {
	return "balance:" + userID
}

func (r *RedisLedger) GetBalance(ctx context.Context, userID string) (int64, error) {
	data, err := r.client.Get(ctx, balanceKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load balance: %w", err)
	}
	bal, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad balance record for %s: %w", userID, err)
	}
	return bal, nil
}

func (r *RedisLedger) Deposit(ctx context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative deposit: %d", amount)
	}
	bal, err := r.GetBalance(ctx, userID)
	if err != nil {
		return err
	}
	if amount > ledger.MaxBalance-bal {
		return ledger.ErrBalanceTooHigh
	}
	if err := r.client.Set(ctx, balanceKey(userID), bal+amount, 0).Err(); err != nil {
		r.logger.Error("Failed to save balance", "user", userID, "error", err)
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

func (r *RedisLedger) Withdraw(ctx context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative withdrawal: %d", amount)
	}
	bal, err := r.GetBalance(ctx, userID)
	if err != nil {
		return err
	}
	if bal < amount {
		return ledger.ErrInsufficientFunds
	}
	if err := r.client.Set(ctx, balanceKey(userID), bal-amount, 0).Err(); err != nil {
		r.logger.Error("Failed to save balance", "user", userID, "error", err)
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

func (r *RedisLedger) Transfer(ctx context.Context, from, to string, amount int64) error {
	if err := r.Withdraw(ctx, from, amount); err != nil {
		return err
	}
	if err := r.Deposit(ctx, to, amount); err != nil {
		// Put the withdrawn amount back so a failed deposit does not
		// burn currency.
		if rbErr := r.Deposit(ctx, from, amount); rbErr != nil {
			r.logger.Error("Failed to roll back transfer", "from", from, "to", to, "error", rbErr)
		}
		return err
	}
	return nil
}
