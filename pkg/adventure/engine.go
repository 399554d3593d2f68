package adventure

import (
	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/item"
)

// Source is the randomness provider for encounter rolls. *math/rand.Rand
// satisfies it; tests substitute a scripted source.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Engine resolves encounter sessions. It is pure logic: rosters and live
// character stats in, pools and outcome out, with all randomness drawn
// from the injected Source.
type Engine struct {
	tunables Tunables
	rng      Source
}

// NewEngine returns an engine using the given balance tunables and
// randomness source.
func NewEngine(t Tunables, rng Source) *Engine {
	return &Engine{tunables: t, rng: rng}
}

// CritEntry records a natural 20 scored during resolution.
type CritEntry struct {
	UserID string
	Action Action
	Roll   int
	Bonus  int
}

// FumbleEntry records a natural 1. Recovered marks a class whose active
// ability turned the fumble into a partial contribution.
type FumbleEntry struct {
	UserID    string
	Action    Action
	Recovered bool
}

// Outcome is the full result of resolving one session.
type Outcome struct {
	Attack    float64
	Magic     float64
	Diplomacy float64

	HP              float64 // effective, after attribute multiplier
	Dipl            float64
	ChallengeRating float64

	Slain          bool
	Persuaded      bool
	Failed         bool
	MinibossFailed bool

	TreasureTier item.Rarity // empty when no chest tier was earned
	BonusChest   bool        // extra chest for any natural 20

	Crits   []CritEntry
	Fumbles []FumbleEntry
	Runners []string

	// Repairs is the currency tax owed per participant on failure.
	Repairs map[string]int64
}

// rollD20 rolls a single twenty-sided die.
func (e *Engine) rollD20() int {
	return e.rng.Intn(20) + 1
}

// bonus draws the crit/fumble bonus: the larger of a flat bonus roll and
// (roll+stat) scaled by a randomly chosen multiplier.
func (e *Engine) bonus(roll, stat int) int {
	t := e.tunables
	bonusRoll := t.BonusRollMin + e.rng.Intn(t.BonusRollMax-t.BonusRollMin+1)
	mult := t.CritMultipliers[e.rng.Intn(len(t.CritMultipliers))]
	if scaled := int(float64(roll+stat) * mult); scaled > bonusRoll {
		return scaled
	}
	return bonusRoll
}

// critClass maps a roster to the class whose active ability crits it.
func critClass(action Action) character.ClassKind {
	switch action {
	case ActionFight:
		return character.ClassBerserker
	case ActionMagic:
		return character.ClassWizard
	case ActionTalk:
		return character.ClassBard
	}
	return ""
}

// statFor returns the stat a roster rolls against.
func statFor(action Action, c *character.Character) int {
	switch action {
	case ActionFight:
		return c.TotalAtt()
	case ActionMagic:
		return c.TotalInt()
	case ActionTalk:
		return c.TotalCha()
	}
	return 0
}

// Resolve consumes a session's rosters plus live character stats and
// produces the encounter outcome. chars may omit a participant; such a
// participant contributes as a fresh default character.
func (e *Engine) Resolve(s *Session, chars map[string]*character.Character) *Outcome {
	o := &Outcome{Repairs: make(map[string]int64)}

	char := func(userID string) *character.Character {
		if c, ok := chars[userID]; ok && c != nil {
			return c
		}
		return character.New(userID)
	}

	// Runners actively penalize the party.
	for _, u := range s.Roster(ActionRun) {
		o.Attack--
		o.Diplomacy--
		o.Magic--
		o.Runners = append(o.Runners, u)
	}

	e.resolveRoster(s, ActionFight, s.Monster.PDef, &o.Attack, char, o)
	e.resolveRoster(s, ActionMagic, s.Monster.MDef, &o.Magic, char, o)
	e.resolveRoster(s, ActionTalk, s.Monster.CDef, &o.Diplomacy, char, o)
	e.resolvePrayers(s, char, o)

	// A miniboss encounter is failed by default and only becomes winnable
	// when some participant has the required item equipped in the
	// required slot.
	if gate := s.Monster.Miniboss; gate != nil {
		o.MinibossFailed = true
		for _, u := range s.Participants() {
			if equipped := char(u).Equipped[gate.Slot]; equipped != nil && equipped.Name == gate.Requires {
				o.MinibossFailed = false
				break
			}
		}
	}

	o.HP = s.Monster.HP * s.Attribute.HPMult
	o.Dipl = s.Monster.Dipl * s.Attribute.DiplMult
	o.ChallengeRating = o.HP + o.Dipl

	if !o.MinibossFailed {
		o.Slain = o.Attack+o.Magic >= o.HP
		o.Persuaded = o.Diplomacy >= o.Dipl
	}
	o.Failed = !o.Slain && !o.Persuaded
	o.BonusChest = len(o.Crits) > 0

	if o.Failed {
		e.assessRepairs(s, char, o)
	} else {
		o.TreasureTier = e.treasureTier(o.ChallengeRating, s.Monster.Boss)
	}

	return o
}

// resolveRoster rolls every member of one roster against def and adds the
// contributions to pool.
func (e *Engine) resolveRoster(s *Session, action Action, def float64, pool *float64, char func(string) *character.Character, o *Outcome) {
	crit := critClass(action)
	for _, u := range s.Roster(action) {
		c := char(u)
		roll := e.rollD20()
		stat := statFor(action, c)
		abilityActive := c.Class.Kind == crit && c.Class.AbilityActive

		switch {
		case roll == 1:
			// Fumble: the bonus is subtracted, not added. An active
			// matching-class ability recovers half the stat instead.
			if abilityActive {
				*pool += float64(stat) / 2 / def
				o.Fumbles = append(o.Fumbles, FumbleEntry{UserID: u, Action: action, Recovered: true})
			} else {
				*pool -= float64(e.bonus(roll, stat))
				o.Fumbles = append(o.Fumbles, FumbleEntry{UserID: u, Action: action})
			}
		case roll == 20 || abilityActive:
			b := e.bonus(roll, stat)
			*pool += (float64(roll+stat) + float64(b)) / def
			if roll == 20 {
				o.Crits = append(o.Crits, CritEntry{UserID: u, Action: action, Roll: roll, Bonus: b})
			}
		default:
			*pool += float64(roll+stat) / def
		}
	}
}

// resolvePrayers applies the pray roster. Clerics with an active ability
// swing all three pools by tiered multipliers scaled to each acting
// subgroup; everyone else rolls 1-4 for a binary big-bonus.
func (e *Engine) resolvePrayers(s *Session, char func(string) *character.Character, o *Outcome) {
	fighters := float64(len(s.Roster(ActionFight)))
	casters := float64(len(s.Roster(ActionMagic)))
	talkers := float64(len(s.Roster(ActionTalk)))
	t := e.tunables

	for _, u := range s.Roster(ActionPray) {
		c := char(u)
		if c.Class.Kind == character.ClassCleric && c.Class.AbilityActive {
			roll := e.rollD20()
			switch {
			case roll == 1:
				o.Attack -= t.PrayPenalty * fighters
				o.Magic -= t.PrayPenalty * casters
				o.Diplomacy -= t.PrayPenalty * talkers
				o.Fumbles = append(o.Fumbles, FumbleEntry{UserID: u, Action: ActionPray})
			case roll <= 10:
				e.blessPools(o, t.PrayTierMults[0], fighters, casters, talkers)
			case roll <= 19:
				e.blessPools(o, t.PrayTierMults[1], fighters, casters, talkers)
			default:
				e.blessPools(o, t.PrayTierMults[2], fighters, casters, talkers)
				o.Crits = append(o.Crits, CritEntry{UserID: u, Action: ActionPray, Roll: roll})
			}
			continue
		}

		if e.rng.Intn(4)+1 == 4 {
			e.blessPools(o, t.PrayerSuccessBonus, fighters, casters, talkers)
		}
	}
}

func (e *Engine) blessPools(o *Outcome, mult, fighters, casters, talkers float64) {
	o.Attack += mult * fighters
	o.Magic += mult * casters
	o.Diplomacy += mult * talkers
}

// rarityRank orders chest tiers for the boss floor check.
var rarityRank = map[item.Rarity]int{
	item.RarityNormal:    0,
	item.RarityRare:      1,
	item.RarityEpic:      2,
	item.RarityLegendary: 3,
	item.RarityAscended:  4,
}

// treasureTier maps challenge rating to a chest tier, breaking ties
// between adjacent tiers at random. Boss monsters never award below epic.
func (e *Engine) treasureTier(cr float64, boss bool) item.Rarity {
	var tier item.Rarity
	switch {
	case cr >= 900:
		tier = e.pick(item.RarityLegendary, item.RarityAscended)
	case cr >= 500:
		tier = e.pick(item.RarityEpic, item.RarityLegendary)
	case cr >= 200:
		tier = e.pick(item.RarityRare, item.RarityEpic)
	case cr >= 50:
		tier = e.pick(item.RarityNormal, item.RarityRare)
	}

	if boss && rarityRank[tier] < rarityRank[item.RarityEpic] {
		tier = item.RarityEpic
	}
	return tier
}

func (e *Engine) pick(a, b item.Rarity) item.Rarity {
	if e.rng.Intn(2) == 0 {
		return a
	}
	return b
}

// assessRepairs computes the failure tax per participant: proportional to
// balance, inversely proportional to dexterity (flat rate at dex <= 1),
// skipped entirely at or below the balance floor.
func (e *Engine) assessRepairs(s *Session, char func(string) *character.Character, o *Outcome) {
	t := e.tunables
	for _, u := range s.Participants() {
		c := char(u)
		if c.Balance <= t.RepairFloor {
			continue
		}
		dex := c.TotalDex()
		if dex < 1 {
			dex = 1
		}
		if tax := int64(float64(c.Balance) * t.RepairRate / float64(dex)); tax > 0 {
			o.Repairs[u] = tax
		}
	}
}
