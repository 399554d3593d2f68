package adventure

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tunables are the balance constants of the resolution engine. The crit
// and fumble bonus formulas mix several magic numbers that are game
// balance, not derivable values, so they load from a file instead of
// living as hard constants. The asymmetry between fumble (bonus
// subtracted) and crit (bonus added) is intentional.
type Tunables struct {
	// Bonus roll range for crits and fumbles, inclusive.
	BonusRollMin int `yaml:"bonus_roll_min"`
	BonusRollMax int `yaml:"bonus_roll_max"`

	// Candidate multipliers for the (roll+stat)*mult half of the bonus
	// formula; one is drawn at random per crit or fumble.
	CritMultipliers []float64 `yaml:"crit_multipliers"`

	// Cleric prayer: penalty per subgroup member on a natural 1, and the
	// escalating tier multipliers for rolls 2-10, 11-19 and 20.
	PrayPenalty   float64    `yaml:"pray_penalty"`
	PrayTierMults [3]float64 `yaml:"pray_tier_mults"`

	// Non-cleric prayer: pool bonus per subgroup member on a successful
	// 1-in-4 roll.
	PrayerSuccessBonus float64 `yaml:"prayer_success_bonus"`

	// Repair tax on a failed encounter.
	RepairRate  float64 `yaml:"repair_rate"`
	RepairFloor int64   `yaml:"repair_floor"`
}

// DefaultTunables returns the balance constants the game shipped with.
func DefaultTunables() Tunables {
	return Tunables{
		BonusRollMin:       5,
		BonusRollMax:       15,
		CritMultipliers:    []float64{0.2, 0.3, 0.4, 0.5},
		PrayPenalty:        5,
		PrayTierMults:      [3]float64{1, 2, 3},
		PrayerSuccessBonus: 10,
		RepairRate:         0.05,
		RepairFloor:        500,
	}
}

// LoadTunables reads overrides from a YAML file. Unknown fields are an
// error so a typo in a balance file does not silently fall back to a
// default.
func LoadTunables(path string) (Tunables, error) {
	t := DefaultTunables()

	f, err := os.Open(path)
	if err != nil {
		return t, fmt.Errorf("tunables: open %q: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return t, fmt.Errorf("tunables: decode %q: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate checks the tunables for values the engine cannot work with.
func (t Tunables) Validate() error {
	if t.BonusRollMin < 0 || t.BonusRollMax < t.BonusRollMin {
		return fmt.Errorf("tunables: bonus roll range [%d, %d] is invalid", t.BonusRollMin, t.BonusRollMax)
	}
	if len(t.CritMultipliers) == 0 {
		return fmt.Errorf("tunables: no crit multipliers")
	}
	if t.RepairRate < 0 || t.RepairRate > 1 {
		return fmt.Errorf("tunables: repair rate %v out of [0, 1]", t.RepairRate)
	}
	return nil
}
