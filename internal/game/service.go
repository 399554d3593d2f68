package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/wuggawugga/adventurebot/internal/locks"
	"github.com/wuggawugga/adventurebot/internal/storage"
	"github.com/wuggawugga/adventurebot/pkg/adventure"
	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/gamedata"
	"github.com/wuggawugga/adventurebot/pkg/ledger"
	"github.com/wuggawugga/adventurebot/pkg/loot"
)

// Source is the randomness provider shared by the service's own draws
// (monster pick, forge roll, trader spawns).
type Source interface {
	Intn(n int) int
}

// Options configures a Service. Zero values get sensible defaults.
type Options struct {
	Store    storage.Store
	Ledger   ledger.Ledger
	Themes   *gamedata.Store
	Prompter Prompter
	Tunables adventure.Tunables
	Rand     Source
	Logger   *slog.Logger

	Countdown       time.Duration
	ReactionTimeout time.Duration
}

// Service is the command surface of the game. One instance serves every
// guild; per-guild session state lives in the registry and per-user
// mutation safety in the lock manager.
type Service struct {
	store    storage.Store
	ledger   ledger.Ledger
	themes   *gamedata.Store
	prompter Prompter
	engine   *adventure.Engine
	registry *adventure.Registry
	locks    *locks.Manager
	rng      Source
	logger   *slog.Logger

	countdown       time.Duration
	reactionTimeout time.Duration

	// sleep is swapped out by tests so countdowns finish instantly.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	traderMu   sync.Mutex
	lastTrader map[string]time.Time

	advMu         sync.Mutex
	lastAdventure map[string]time.Time
}

// lockedSource serializes draws from a shared *rand.Rand, which is not
// safe for the concurrent guild flows that share the service rng.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func New(opts Options) *Service {
	rng := opts.Rand
	if rng == nil {
		rng = &lockedSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	countdown := opts.Countdown
	if countdown == 0 {
		countdown = 2 * time.Minute
	}
	timeout := opts.ReactionTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		store:           opts.Store,
		ledger:          opts.Ledger,
		themes:          opts.Themes,
		prompter:        opts.Prompter,
		engine:          adventure.NewEngine(opts.Tunables, rng),
		registry:        adventure.NewRegistry(),
		locks:           locks.NewManager(),
		rng:             rng,
		logger:          logger,
		countdown:       countdown,
		reactionTimeout: timeout,
		sleep:           sleepCtx,
		now:             time.Now,
		lastTrader:      make(map[string]time.Time),
		lastAdventure:   make(map[string]time.Time),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// generator builds a loot generator over the current theme's word lists.
// Built per use so a theme swap takes effect immediately.
func (s *Service) generator() *loot.Generator {
	return loot.NewGenerator(s.themes.Theme().Names, s.rng)
}

// loadCharacter reads a character, creating a fresh one for first-time
// players, and refreshes the cached ledger balance.
func (s *Service) loadCharacter(ctx context.Context, userID string) (*character.Character, error) {
	c, err := s.store.GetCharacter(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = character.New(userID)
	}
	bal, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh balance: %w", err)
	}
	c.Balance = bal
	return c, nil
}

// withCharacter runs fn on userID's character under their lock and
// persists the result. fn returning an error aborts without saving.
func (s *Service) withCharacter(ctx context.Context, userID string, fn func(c *character.Character) error) error {
	return s.locks.Do(userID, func() error {
		c, err := s.loadCharacter(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		return s.store.SaveCharacter(ctx, c)
	})
}

// Profile returns a read-only snapshot of a character.
func (s *Service) Profile(ctx context.Context, userID string) (*character.Character, error) {
	return s.loadCharacter(ctx, userID)
}

// SetClass changes a character's hero class.
func (s *Service) SetClass(ctx context.Context, userID string, kind character.ClassKind) error {
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		hc, err := character.NewHeroClass(kind)
		if err != nil {
			return err
		}
		c.Class = hc
		return nil
	})
}

// AllocateSkill spends unspent skill points on a permanent stat.
func (s *Service) AllocateSkill(ctx context.Context, userID, stat string, points int) error {
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		return c.AllocateSkill(stat, points)
	})
}

// SaveLoadout snapshots the current equipment under a name.
func (s *Service) SaveLoadout(ctx context.Context, userID, name string) error {
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		c.SaveLoadout(name)
		return nil
	})
}

// EquipLoadout restores a named equipment snapshot. Items no longer
// owned leave their slot empty.
func (s *Service) EquipLoadout(ctx context.Context, userID, name string) error {
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		if !c.EquipLoadout(name) {
			return fmt.Errorf("no loadout named %q", name)
		}
		return nil
	})
}

// Rebirth resets a character's progression in exchange for a permanent
// rebirth count. Gear and chests carry over.
func (s *Service) Rebirth(ctx context.Context, userID string) error {
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		c.Rebirth()
		return nil
	})
}

// UpdateGuildSettings loads a guild's settings, applies mutate and saves
// the result. First-time guilds start from defaults.
func (s *Service) UpdateGuildSettings(ctx context.Context, guildID string, mutate func(*storage.GuildSettings)) error {
	gs, err := s.store.GetGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to load guild settings: %w", err)
	}
	if gs == nil {
		gs = &storage.GuildSettings{GuildID: guildID}
	}
	mutate(gs)
	return s.store.SaveGuildSettings(ctx, gs)
}
