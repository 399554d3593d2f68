package game

import (
	"context"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuggawugga/adventurebot/internal/storage"
	"github.com/wuggawugga/adventurebot/pkg/adventure"
	"github.com/wuggawugga/adventurebot/pkg/gamedata"
	"github.com/wuggawugga/adventurebot/pkg/ledger"
)

// scriptedSource replays a fixed draw sequence, reducing each scripted
// value modulo the requested bound.
type scriptedSource struct {
	vals []int
	i    int
}

func (s *scriptedSource) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i] % n
	s.i++
	return v
}

func testTheme() *gamedata.Theme {
	return &gamedata.Theme{
		Name: "test",
		Monsters: map[string]gamedata.Monster{
			"troll": {Name: "troll", HP: 15, Dipl: 10, PDef: 1, MDef: 1, CDef: 1},
		},
		Attributes: []gamedata.Attribute{{Name: "n/a", HPMult: 1, DiplMult: 1}},
		Pets: []gamedata.Pet{
			{Name: "mouse", Bonus: 1.1, RequiredCha: 0},
			{Name: "griffin", Bonus: 2.2, RequiredCha: 120},
		},
		Names: gamedata.NameParts{
			Adjectives: []string{"rusty"},
			Nouns:      []string{"blade"},
			Suffixes:   []string{"embers"},
		},
	}
}

type testDeps struct {
	store    *storage.MockStore
	ledger   *ledger.Mock
	prompter *MockPrompter
}

func newTestService(t *testing.T, rng Source) (*Service, *testDeps) {
	t.Helper()

	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	deps := &testDeps{
		store:    storage.NewMockStore(),
		ledger:   ledger.NewMock(),
		prompter: NewMockPrompter(),
	}
	svc := New(Options{
		Store:           deps.store,
		Ledger:          deps.ledger,
		Themes:          gamedata.NewStore(testTheme()),
		Prompter:        deps.prompter,
		Tunables:        adventure.DefaultTunables(),
		Rand:            rng,
		Logger:          slog.Default(),
		Countdown:       time.Millisecond,
		ReactionTimeout: time.Millisecond,
	})
	svc.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return svc, deps
}

func TestUpdateGuildSettings(t *testing.T) {
	svc, deps := newTestService(t, nil)
	ctx := context.Background()

	// First write starts from defaults.
	err := svc.UpdateGuildSettings(ctx, "guild-1", func(gs *storage.GuildSettings) {
		gs.TraderDisabled = true
	})
	require.NoError(t, err)

	gs, err := deps.store.GetGuildSettings(ctx, "guild-1")
	require.NoError(t, err)
	require.NotNil(t, gs)
	assert.Equal(t, "guild-1", gs.GuildID)
	assert.True(t, gs.TraderDisabled)

	// Later writes keep fields the mutation does not touch.
	err = svc.UpdateGuildSettings(ctx, "guild-1", func(gs *storage.GuildSettings) {
		gs.CooldownSeconds = 60
	})
	require.NoError(t, err)

	gs, err = deps.store.GetGuildSettings(ctx, "guild-1")
	require.NoError(t, err)
	assert.True(t, gs.TraderDisabled)
	assert.Equal(t, 60, gs.CooldownSeconds)
}
