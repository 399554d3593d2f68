// Package storage persists characters and guild settings in Redis.
// Records are stored whole as JSON under prefixed keys; a missing record
// is reported as (nil, nil) so callers can distinguish absence from failure.
package storage

import (
	"context"

	"github.com/wuggawugga/adventurebot/pkg/character"
)

// GuildSettings holds per-guild configuration set by admins.
type GuildSettings struct {
	GuildID string `json:"guild_id"`

	// Theme selects the monster/name tables for this guild's adventures.
	Theme string `json:"theme,omitempty"`

	// AdventureChannel restricts where encounters are announced.
	// Empty means any channel.
	AdventureChannel string `json:"adventure_channel,omitempty"`

	// CooldownSeconds is the minimum gap between adventures. Zero means
	// no cooldown.
	CooldownSeconds int `json:"cooldown_seconds,omitempty"`

	// TraderDisabled turns off wandering trader spawns.
	TraderDisabled bool `json:"trader_disabled,omitempty"`
}

// Store is the persistence interface for game records.
type Store interface {
	GetCharacter(ctx context.Context, userID string) (*character.Character, error)
	SaveCharacter(ctx context.Context, c *character.Character) error

	GetGuildSettings(ctx context.Context, guildID string) (*GuildSettings, error)
	SaveGuildSettings(ctx context.Context, gs *GuildSettings) error

	Ping(ctx context.Context) error
	Close() error
}
