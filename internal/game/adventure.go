package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wuggawugga/adventurebot/pkg/adventure"
	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/gamedata"
	"github.com/wuggawugga/adventurebot/pkg/ledger"
)

// actionEmoji maps the reaction emoji on the encounter prompt to rosters.
var actionEmoji = map[string]adventure.Action{
	"⚔️":  adventure.ActionFight,
	"🪄":  adventure.ActionMagic,
	"🗣️": adventure.ActionTalk,
	"🙏":  adventure.ActionPray,
	"🏃":  adventure.ActionRun,
}

// adventureEmoji lists the allowed reactions in prompt order.
var adventureEmoji = []string{"⚔️", "🪄", "🗣️", "🙏", "🏃"}

// ErrUnknownMonster is returned when a privileged override names a
// monster the active theme does not have.
var ErrUnknownMonster = errors.New("unknown monster")

// ErrAdventureCooldown is returned when a guild starts an adventure
// before its configured cooldown has elapsed.
var ErrAdventureCooldown = errors.New("adventure on cooldown")

// ErrWrongChannel is returned when an adventure is started outside the
// guild's configured adventure channel.
var ErrWrongChannel = errors.New("adventures are limited to the configured channel")

// StartAdventure opens an encounter for a guild, collects action choices
// until the countdown expires, resolves the encounter and pays out.
// Only one adventure may run per guild; a second start returns
// adventure.ErrAdventureRunning. A monster override from a
// non-privileged caller is silently ignored.
func (s *Service) StartAdventure(ctx context.Context, guildID, channel, monsterName string, privileged bool) error {
	theme := s.themes.Theme()

	if err := s.checkAdventureGate(ctx, guildID, channel); err != nil {
		return err
	}

	if !privileged {
		monsterName = ""
	}
	monster, attr, err := s.pickEncounter(theme, monsterName)
	if err != nil {
		return err
	}

	sess := adventure.NewSession(guildID, monster, attr, s.now(), s.countdown)
	if err := s.registry.Begin(sess); err != nil {
		return err
	}
	defer s.registry.End(guildID)
	defer s.recordAdventure(guildID)

	msg, err := s.prompter.SendMessage(ctx, channel, encounterPrompt(monster, attr, s.countdown))
	if err != nil {
		return fmt.Errorf("failed to announce encounter: %w", err)
	}

	s.collectReactions(ctx, sess, msg)

	summary := s.resolveAndPayout(ctx, sess)
	if _, err := s.prompter.SendMessage(ctx, channel, summary); err != nil {
		s.logger.Error("Failed to send encounter summary", "guild", guildID, "error", err)
	}
	return nil
}

// checkAdventureGate enforces the guild's configured adventure channel
// and the gap between adventures. Unset settings gate nothing.
func (s *Service) checkAdventureGate(ctx context.Context, guildID, channel string) error {
	gs, err := s.store.GetGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to load guild settings: %w", err)
	}
	if gs == nil {
		return nil
	}
	if gs.AdventureChannel != "" && channel != gs.AdventureChannel {
		return ErrWrongChannel
	}
	if gs.CooldownSeconds <= 0 {
		return nil
	}

	s.advMu.Lock()
	defer s.advMu.Unlock()
	last, ok := s.lastAdventure[guildID]
	if ok && s.now().Sub(last) < time.Duration(gs.CooldownSeconds)*time.Second {
		return ErrAdventureCooldown
	}
	return nil
}

func (s *Service) recordAdventure(guildID string) {
	s.advMu.Lock()
	defer s.advMu.Unlock()
	s.lastAdventure[guildID] = s.now()
}

// pickEncounter chooses the monster and attribute pair. Monsters are
// drawn by sorted key so the same rng script always yields the same pick.
func (s *Service) pickEncounter(theme *gamedata.Theme, monsterName string) (gamedata.Monster, gamedata.Attribute, error) {
	var monster gamedata.Monster
	if monsterName != "" {
		m, ok := theme.Monsters[monsterName]
		if !ok {
			return gamedata.Monster{}, gamedata.Attribute{}, fmt.Errorf("%w: %s", ErrUnknownMonster, monsterName)
		}
		monster = m
	} else {
		keys := make([]string, 0, len(theme.Monsters))
		for k := range theme.Monsters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		monster = theme.Monsters[keys[s.rng.Intn(len(keys))]]
	}

	attr := gamedata.Attribute{Name: "n/a", HPMult: 1, DiplMult: 1}
	if len(theme.Attributes) > 0 {
		attr = theme.Attributes[s.rng.Intn(len(theme.Attributes))]
	}
	return monster, attr, nil
}

// collectReactions drains action reactions until the session deadline.
// Waits are capped at one second so the loop re-checks elapsed time on
// every wake; a failed wait logs and keeps going.
func (s *Service) collectReactions(ctx context.Context, sess *adventure.Session, msg MessageRef) {
	for {
		remaining := sess.Deadline.Remaining(s.now())
		if remaining <= 0 {
			return
		}
		wait := remaining
		if wait > time.Second {
			wait = time.Second
		}

		r, ok, err := s.prompter.AwaitReaction(ctx, msg, adventureEmoji, wait)
		if err != nil {
			s.logger.Warn("Reaction wait failed", "guild", sess.GuildID, "error", err)
			if err := s.sleep(ctx, wait); err != nil {
				return
			}
			continue
		}
		if !ok {
			continue
		}
		if err := s.HandleReaction(sess.GuildID, r.UserID, r.Emoji); err != nil {
			s.logger.Debug("Ignoring reaction", "guild", sess.GuildID, "user", r.UserID, "emoji", r.Emoji)
		}
	}
}

// HandleReaction routes a host-delivered reaction into the guild's open
// session roster. Unknown emoji and absent sessions are rejected.
func (s *Service) HandleReaction(guildID, userID, emoji string) error {
	action, ok := actionEmoji[emoji]
	if !ok {
		return adventure.ErrUnknownAction
	}
	sess, ok := s.registry.Get(guildID)
	if !ok {
		return fmt.Errorf("no adventure running in guild %s", guildID)
	}
	return sess.ChooseAction(userID, action)
}

// resolveAndPayout runs the resolution engine over the final rosters and
// applies rewards or repair taxes per participant. Each participant's
// payout runs under their own lock and failures are isolated: one broken
// record never blocks the rest of the party.
func (s *Service) resolveAndPayout(ctx context.Context, sess *adventure.Session) string {
	participants := sess.Participants()

	chars := make(map[string]*character.Character, len(participants))
	for _, uid := range participants {
		c, err := s.loadCharacter(ctx, uid)
		if err != nil {
			s.logger.Error("Failed to load participant", "guild", sess.GuildID, "user", uid, "error", err)
			continue
		}
		chars[uid] = c
	}

	outcome := s.engine.Resolve(sess, chars)

	var rewards map[string]adventure.Reward
	if !outcome.Failed && !outcome.MinibossFailed {
		rewards = s.engine.Distribute(outcome, chars, participants, 0)
	}

	for _, uid := range participants {
		if _, ok := chars[uid]; !ok {
			continue
		}
		if err := s.settleParticipant(ctx, uid, rewards[uid], outcome.Repairs[uid]); err != nil {
			s.logger.Error("Failed to settle participant", "guild", sess.GuildID, "user", uid, "error", err)
		}
	}

	return outcomeSummary(sess, outcome, rewards)
}

// settleParticipant applies one participant's reward and repair tax and
// clears their spent ability flag, all in a single locked load-save.
func (s *Service) settleParticipant(ctx context.Context, userID string, r adventure.Reward, repair int64) error {
	return s.locks.Do(userID, func() error {
		c, err := s.loadCharacter(ctx, userID)
		if err != nil {
			return err
		}

		adventure.ApplyReward(c, r)
		if r.Currency > 0 {
			if err := ledger.DepositCapped(ctx, s.ledger, userID, r.Currency); err != nil {
				return err
			}
		}
		if repair > 0 {
			if err := s.ledger.Withdraw(ctx, userID, repair); err != nil {
				// Balance moved since assessment; the tax is forgiven
				// rather than blocking the settle.
				if !errors.Is(err, ledger.ErrInsufficientFunds) {
					return err
				}
			}
		}

		c.Class.AbilityActive = false
		return s.store.SaveCharacter(ctx, c)
	})
}

const abilityCooldown = 5 * time.Minute

// ActivateAbility arms a class's active ability for the next encounter.
func (s *Service) ActivateAbility(ctx context.Context, userID string) error {
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		if c.Class.Kind == character.ClassHero {
			return fmt.Errorf("the default class has no active ability")
		}
		if c.Class.OnCooldown(s.now()) {
			return fmt.Errorf("ability on cooldown")
		}
		c.Class.AbilityActive = true
		c.Class.CooldownAt = s.now().Add(abilityCooldown).Unix()
		return nil
	})
}

func encounterPrompt(m gamedata.Monster, attr gamedata.Attribute, countdown time.Duration) string {
	var b strings.Builder
	name := m.Name
	if attr.Name != "" && attr.Name != "n/a" {
		name = attr.Name + " " + name
	}
	fmt.Fprintf(&b, "A %s appears! The party has %s to act.\n", name, countdown.Round(time.Second))
	b.WriteString("⚔️ fight  🪄 magic  🗣️ talk  🙏 pray  🏃 run")
	return b.String()
}

func outcomeSummary(sess *adventure.Session, o *adventure.Outcome, rewards map[string]adventure.Reward) string {
	var b strings.Builder
	switch {
	case o.MinibossFailed:
		fmt.Fprintf(&b, "The party was unprepared for the %s and fled in disgrace.", sess.Monster.Name)
	case o.Slain:
		fmt.Fprintf(&b, "The %s is slain!", sess.Monster.Name)
	case o.Persuaded:
		fmt.Fprintf(&b, "The %s leaves peacefully.", sess.Monster.Name)
	default:
		fmt.Fprintf(&b, "The %s routs the party.", sess.Monster.Name)
	}

	if len(rewards) > 0 {
		var any adventure.Reward
		for _, r := range rewards {
			any = r
			break
		}
		fmt.Fprintf(&b, " Each survivor earns %v xp and %s coins.", any.XP, FormatCurrency(any.Currency))
		if o.TreasureTier != "" {
			fmt.Fprintf(&b, " A %s treasure chest is found!", o.TreasureTier)
		}
	}
	if len(o.Repairs) > 0 {
		b.WriteString(" Repair bills have been issued.")
	}
	return b.String()
}
