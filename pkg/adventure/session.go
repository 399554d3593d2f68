// Package adventure implements the encounter engine: the per-guild session
// that collects party action choices during a countdown window, the
// registry that enforces one adventure per guild, and the resolution and
// reward logic that turns rosters plus character stats into an outcome.
package adventure

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wuggawugga/adventurebot/pkg/gamedata"
)

// Action is a party member's choice for the current encounter.
type Action string

const (
	ActionFight Action = "fight"
	ActionMagic Action = "magic"
	ActionTalk  Action = "talk"
	ActionPray  Action = "pray"
	ActionRun   Action = "run"
)

// Actions lists every roster in resolution order.
var Actions = []Action{ActionFight, ActionMagic, ActionTalk, ActionPray, ActionRun}

// ErrUnknownAction is returned for a reaction that maps to no roster.
var ErrUnknownAction = errors.New("unknown adventure action")

// Deadline is the countdown boundary for a session. Remaining time is a
// pure function of the deadline and a caller-supplied clock, so tick tasks
// can die without losing track of when the window closes.
type Deadline struct {
	At time.Time
}

// NewDeadline returns a deadline d from now.
func NewDeadline(now time.Time, d time.Duration) Deadline {
	return Deadline{At: now.Add(d)}
}

// Remaining returns the time left before expiry, never negative.
func (d Deadline) Remaining(now time.Time) time.Duration {
	if r := d.At.Sub(now); r > 0 {
		return r
	}
	return 0
}

// Expired reports whether the countdown has elapsed.
func (d Deadline) Expired(now time.Time) bool {
	return !now.Before(d.At)
}

// Session is one in-flight adventure for a guild. It is created by the
// adventure command, mutated by reaction events while the countdown runs,
// consumed exactly once by Resolve and then removed from the registry.
type Session struct {
	GuildID   string
	Challenge string
	Monster   gamedata.Monster // stat snapshot taken at creation
	Attribute gamedata.Attribute
	Deadline  Deadline
	MessageID uuid.UUID

	mu           sync.Mutex
	rosters      map[Action][]string
	participants map[string]bool
}

// NewSession creates a session for guildID against the given monster.
func NewSession(guildID string, monster gamedata.Monster, attr gamedata.Attribute, now time.Time, countdown time.Duration) *Session {
	rosters := make(map[Action][]string, len(Actions))
	for _, a := range Actions {
		rosters[a] = nil
	}
	return &Session{
		GuildID:      guildID,
		Challenge:    monster.Name,
		Monster:      monster,
		Attribute:    attr,
		Deadline:     NewDeadline(now, countdown),
		MessageID:    uuid.New(),
		rosters:      rosters,
		participants: make(map[string]bool),
	}
}

// ChooseAction records a participant's choice. The user is removed from
// every other roster first, so a user is on at most one roster at a time.
// Re-choosing the same action is a no-op.
func (s *Session) ChooseAction(userID string, action Action) error {
	valid := false
	for _, a := range Actions {
		if a == action {
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownAction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for a, roster := range s.rosters {
		if a == action {
			continue
		}
		s.rosters[a] = removeUser(roster, userID)
	}
	for _, u := range s.rosters[action] {
		if u == userID {
			return nil
		}
	}
	s.rosters[action] = append(s.rosters[action], userID)
	s.participants[userID] = true
	return nil
}

func removeUser(roster []string, userID string) []string {
	for i, u := range roster {
		if u == userID {
			return append(roster[:i], roster[i+1:]...)
		}
	}
	return roster
}

// Roster returns a copy of the named roster.
func (s *Session) Roster(action Action) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.rosters[action]...)
}

// Participants returns every user who chose any action, in no particular
// order.
func (s *Session) Participants() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]string, 0, len(s.participants))
	for u := range s.participants {
		users = append(users, u)
	}
	return users
}
