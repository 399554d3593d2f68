// Package game wires the encounter engine, loot economy, persistence and
// the lock manager into the command surface a client drives. All player
// interaction goes through the Prompter boundary, so the package has no
// knowledge of any particular chat platform.
package game

import (
	"context"
	"time"
)

// MessageRef identifies a sent message for later reaction collection.
type MessageRef struct {
	Channel string
	ID      string
}

// Reaction is a player's emoji response to a message.
type Reaction struct {
	UserID string
	Emoji  string
}

// Prompter is the interactive message service. Await calls return
// ok=false on timeout; a timeout is ordinary control flow, never an
// error. Implementations must honor both the timeout and ctx.
type Prompter interface {
	SendMessage(ctx context.Context, channel, content string) (MessageRef, error)

	// AwaitReaction waits for any user to react to msg with one of the
	// allowed emoji.
	AwaitReaction(ctx context.Context, msg MessageRef, allowed []string, timeout time.Duration) (Reaction, bool, error)

	// AwaitMessage waits for a message matching the predicate and
	// returns its content.
	AwaitMessage(ctx context.Context, match func(userID, content string) bool, timeout time.Duration) (string, bool, error)
}
