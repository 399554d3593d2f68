package game

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuggawugga/adventurebot/internal/storage"
	"github.com/wuggawugga/adventurebot/pkg/adventure"
	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/item"
)

func TestStartAdventure_SoloFighterSlays(t *testing.T) {
	// Draws: attribute pick, then a fight roll of 15 (non-crit).
	// (15 + 10) / 1.0 = 25 >= 15 hp, so the troll dies. Rewards:
	// xp = round(25) = 25, currency = round(25 * 0.5) = 13.
	rng := &scriptedSource{vals: []int{0, 14}}
	svc, deps := newTestService(t, rng)
	ctx := context.Background()

	c := character.New("user-1")
	c.Equip(&item.Item{Name: "blade", Slots: []item.Slot{item.SlotRight}, Att: 10}, false)
	require.NoError(t, deps.store.SaveCharacter(ctx, c))

	deps.prompter.QueueReaction("user-1", "⚔️")

	err := svc.StartAdventure(ctx, "guild-1", "tavern", "troll", true)
	require.NoError(t, err)

	loaded, err := deps.store.GetCharacter(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, float64(25), loaded.Exp)

	bal, _ := deps.ledger.GetBalance(ctx, "user-1")
	assert.Equal(t, int64(13), bal)

	sent := deps.prompter.Sent()
	require.NotEmpty(t, sent)
	assert.Contains(t, sent[len(sent)-1], "slain")
}

func TestStartAdventure_FailureChargesRepairs(t *testing.T) {
	// A weak roll of 5 with no gear: 5 < 15 hp and no diplomacy, so the
	// encounter fails. Repair tax at dex 0 is the flat rate:
	// 10000 * 0.05 / 1 = 500.
	rng := &scriptedSource{vals: []int{0, 4}}
	svc, deps := newTestService(t, rng)
	ctx := context.Background()

	require.NoError(t, deps.store.SaveCharacter(ctx, character.New("user-1")))
	deps.ledger.SetBalance("user-1", 10000)

	deps.prompter.QueueReaction("user-1", "⚔️")

	require.NoError(t, svc.StartAdventure(ctx, "guild-1", "tavern", "troll", true))

	bal, _ := deps.ledger.GetBalance(ctx, "user-1")
	assert.Equal(t, int64(9500), bal)

	loaded, _ := deps.store.GetCharacter(ctx, "user-1")
	assert.Zero(t, loaded.Exp, "failed encounters award no experience")
}

func TestStartAdventure_OnePerGuild(t *testing.T) {
	svc, _ := newTestService(t, nil)

	sess := adventure.NewSession("guild-1", testTheme().Monsters["troll"],
		testTheme().Attributes[0], time.Now(), time.Minute)
	require.NoError(t, svc.registry.Begin(sess))

	err := svc.StartAdventure(context.Background(), "guild-1", "tavern", "", false)
	assert.ErrorIs(t, err, adventure.ErrAdventureRunning)
}

func TestStartAdventure_OverrideRequiresPrivilege(t *testing.T) {
	// "dragon" is not in the theme; a non-privileged override is
	// silently dropped instead of erroring.
	svc, _ := newTestService(t, nil)
	err := svc.StartAdventure(context.Background(), "guild-1", "tavern", "dragon", false)
	assert.NoError(t, err)

	err = svc.StartAdventure(context.Background(), "guild-1", "tavern", "dragon", true)
	assert.ErrorIs(t, err, ErrUnknownMonster)
}

func TestHandleReaction(t *testing.T) {
	svc, _ := newTestService(t, nil)

	err := svc.HandleReaction("guild-1", "user-1", "⚔️")
	require.Error(t, err, "no session open")

	sess := adventure.NewSession("guild-1", testTheme().Monsters["troll"],
		testTheme().Attributes[0], time.Now(), time.Minute)
	require.NoError(t, svc.registry.Begin(sess))
	defer svc.registry.End("guild-1")

	require.NoError(t, svc.HandleReaction("guild-1", "user-1", "🙏"))
	assert.Equal(t, []string{"user-1"}, sess.Roster(adventure.ActionPray))

	err = svc.HandleReaction("guild-1", "user-1", "🍕")
	assert.ErrorIs(t, err, adventure.ErrUnknownAction)
}

func TestSettleParticipant_IsolatesFailures(t *testing.T) {
	svc, deps := newTestService(t, &scriptedSource{vals: []int{0, 14, 14}})
	ctx := context.Background()

	deps.store.SeedCharacterData("broken", []byte("not json"))
	require.NoError(t, deps.store.SaveCharacter(ctx, character.New("user-2")))

	deps.prompter.QueueReaction("broken", "⚔️")
	deps.prompter.QueueReaction("user-2", "⚔️")

	// The broken record must not block user-2's settlement.
	require.NoError(t, svc.StartAdventure(ctx, "guild-1", "tavern", "troll", true))

	loaded, err := deps.store.GetCharacter(ctx, "user-2")
	require.NoError(t, err)
	assert.Greater(t, loaded.Exp, float64(0))
}

func TestActivateAbility(t *testing.T) {
	svc, deps := newTestService(t, nil)
	ctx := context.Background()

	c := character.New("user-1")
	hc, err := character.NewHeroClass(character.ClassBerserker)
	require.NoError(t, err)
	c.Class = hc
	require.NoError(t, deps.store.SaveCharacter(ctx, c))

	require.NoError(t, svc.ActivateAbility(ctx, "user-1"))

	loaded, _ := deps.store.GetCharacter(ctx, "user-1")
	assert.True(t, loaded.Class.AbilityActive)

	// Immediately re-activating hits the cooldown.
	err = svc.ActivateAbility(ctx, "user-1")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "cooldown"))
}

func TestActivateAbility_DefaultClassRejected(t *testing.T) {
	svc, deps := newTestService(t, nil)
	ctx := context.Background()
	require.NoError(t, deps.store.SaveCharacter(ctx, character.New("user-1")))

	err := svc.ActivateAbility(ctx, "user-1")
	require.Error(t, err)
}

func TestStartAdventure_ResetsAbilityFlag(t *testing.T) {
	rng := &scriptedSource{vals: []int{0, 14}}
	svc, deps := newTestService(t, rng)
	ctx := context.Background()

	c := character.New("user-1")
	hc, err := character.NewHeroClass(character.ClassBerserker)
	require.NoError(t, err)
	hc.AbilityActive = true
	c.Class = hc
	c.Equip(&item.Item{Name: "blade", Slots: []item.Slot{item.SlotRight}, Att: 10}, false)
	require.NoError(t, deps.store.SaveCharacter(ctx, c))

	deps.prompter.QueueReaction("user-1", "⚔️")
	require.NoError(t, svc.StartAdventure(ctx, "guild-1", "tavern", "troll", true))

	loaded, _ := deps.store.GetCharacter(ctx, "user-1")
	assert.False(t, loaded.Class.AbilityActive)
}

func TestStartAdventure_RespectsGuildCooldown(t *testing.T) {
	svc, deps := newTestService(t, &scriptedSource{vals: []int{0, 14}})
	ctx := context.Background()

	require.NoError(t, deps.store.SaveGuildSettings(ctx, &storage.GuildSettings{
		GuildID:         "guild-1",
		CooldownSeconds: 300,
	}))

	require.NoError(t, svc.StartAdventure(ctx, "guild-1", "chan", "", false))

	err := svc.StartAdventure(ctx, "guild-1", "chan", "", false)
	assert.ErrorIs(t, err, ErrAdventureCooldown)

	// Other guilds are unaffected.
	assert.NoError(t, svc.StartAdventure(ctx, "guild-2", "chan", "", false))
}

func TestStartAdventure_EnforcesConfiguredChannel(t *testing.T) {
	svc, deps := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, deps.store.SaveGuildSettings(ctx, &storage.GuildSettings{
		GuildID:          "guild-1",
		AdventureChannel: "tavern",
	}))

	err := svc.StartAdventure(ctx, "guild-1", "general", "", false)
	assert.ErrorIs(t, err, ErrWrongChannel)

	assert.NoError(t, svc.StartAdventure(ctx, "guild-1", "tavern", "", false))
}
