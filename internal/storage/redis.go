package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wuggawugga/adventurebot/pkg/character"
)

// RedisStore implements Store over a Redis connection. Records are
// written whole with SET so a save is atomic at the record level.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis at addr.
func NewRedisStore(addr string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{client: rdb, logger: logger}
}

// NewRedisStoreFromClient wraps an existing client. Used by tests and by
// callers that share one connection between the store and the ledger.
func NewRedisStoreFromClient(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

// Client exposes the underlying connection so the ledger can share it.
func (r *RedisStore) Client() *redis.Client {
	return r.client
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

// WaitForConnection blocks until Redis answers a ping, retrying on a
// fixed delay. Used during startup when Redis may still be coming up.
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	const maxRetries = 30
	const retryDelay = 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("redis not available after %d attempts", maxRetries)
}

func characterKey(userID string) string {
	return "character:" + userID
}

func guildKey(guildID string) string {
	return "guild:" + guildID
}

// GetCharacter loads a character record. Returns (nil, nil) when the
// user has no record yet. A record that fails to deserialize surfaces
// character.ErrCorruptRecord and is left untouched in Redis.
func (r *RedisStore) GetCharacter(ctx context.Context, userID string) (*character.Character, error) {
	data, err := r.client.Get(ctx, characterKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load character", "user", userID, "error", err)
		return nil, fmt.Errorf("failed to load character: %w", err)
	}

	c, err := character.Unmarshal([]byte(data))
	if err != nil {
		r.logger.Error("Corrupt character record", "user", userID, "error", err)
		return nil, err
	}
	return c, nil
}

func (r *RedisStore) SaveCharacter(ctx context.Context, c *character.Character) error {
	data, err := c.Marshal()
	if err != nil {
		r.logger.Error("Failed to marshal character", "user", c.UserID, "error", err)
		return fmt.Errorf("failed to marshal character: %w", err)
	}
	if err := r.client.Set(ctx, characterKey(c.UserID), data, 0).Err(); err != nil {
		r.logger.Error("Failed to save character", "user", c.UserID, "error", err)
		return fmt.Errorf("failed to save character: %w", err)
	}
	return nil
}

func (r *RedisStore) GetGuildSettings(ctx context.Context, guildID string) (*GuildSettings, error) {
	data, err := r.client.Get(ctx, guildKey(guildID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load guild settings", "guild", guildID, "error", err)
		return nil, fmt.Errorf("failed to load guild settings: %w", err)
	}

	var gs GuildSettings
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		r.logger.Error("Failed to unmarshal guild settings", "guild", guildID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal guild settings: %w", err)
	}
	return &gs, nil
}

func (r *RedisStore) SaveGuildSettings(ctx context.Context, gs *GuildSettings) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal guild settings: %w", err)
	}
	if err := r.client.Set(ctx, guildKey(gs.GuildID), data, 0).Err(); err != nil {
		r.logger.Error("Failed to save guild settings", "guild", gs.GuildID, "error", err)
		return fmt.Errorf("failed to save guild settings: %w", err)
	}
	return nil
}
