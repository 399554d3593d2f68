package adventure

import (
	"math"

	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/item"
)

// Reward is one participant's payout from a won encounter. Applying it to
// the character happens later, under that user's lock.
type Reward struct {
	XP         float64
	Currency   int64
	Tier       item.Rarity
	BonusChest bool
	PetBonus   bool
}

// Distribute computes per-participant rewards for a resolved outcome.
// Runners fled and earn nothing. The treasure tier is granted identically
// to every rewarded participant, not divided among them.
func (e *Engine) Distribute(o *Outcome, chars map[string]*character.Character, participants []string, performanceRatio float64) map[string]Reward {
	if performanceRatio == 0 {
		performanceRatio = 0.5
	}

	baseXP := math.Max(1, math.Round(o.ChallengeRating))
	baseCurrency := int64(math.Max(1, math.Round(o.ChallengeRating*performanceRatio)))

	fled := make(map[string]bool, len(o.Runners))
	for _, u := range o.Runners {
		fled[u] = true
	}

	rewards := make(map[string]Reward)
	for _, u := range participants {
		if fled[u] {
			continue
		}

		r := Reward{
			XP:         baseXP,
			Currency:   baseCurrency,
			Tier:       o.TreasureTier,
			BonusChest: o.BonusChest,
		}

		// 1-in-5 chance of the Ranger pet bonus on both xp and currency.
		if c, ok := chars[u]; ok && c != nil && c.Class.HasActivePet() && e.rng.Intn(5) == 0 {
			mult := c.Class.Pet.Bonus
			r.XP = math.Round(baseXP * mult)
			r.Currency = int64(math.Round(float64(baseCurrency) * mult))
			r.PetBonus = true
		}

		rewards[u] = r
	}
	return rewards
}

// ApplyReward mutates a character with its payout: experience (with the
// level-up skill pool recompute), treasure chests and the crit bonus
// chest. Currency goes through the ledger separately because deposits can
// saturate.
func ApplyReward(c *character.Character, r Reward) {
	c.AddExp(r.XP)
	if r.Tier != "" {
		c.AddChest(r.Tier, 1)
	}
	if r.BonusChest {
		c.AddChest(item.RarityNormal, 1)
	}
}
