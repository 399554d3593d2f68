package adventure

import (
	"testing"

	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/item"
)

func TestDistribute_Monotonicity(t *testing.T) {
	e := NewEngine(DefaultTunables(), &scriptedSource{vals: []int{1}})

	for _, cr := range []float64{0, 0.2, 1, 25, 900} {
		o := &Outcome{ChallengeRating: cr}
		rewards := e.Distribute(o, nil, []string{"user1"}, 0)

		r := rewards["user1"]
		if r.XP < 1 {
			t.Errorf("cr=%v: XP = %v, want >= 1", cr, r.XP)
		}
		if r.Currency < 1 {
			t.Errorf("cr=%v: Currency = %d, want >= 1", cr, r.Currency)
		}
	}
}

func TestDistribute_DefaultPerformanceRatio(t *testing.T) {
	e := NewEngine(DefaultTunables(), &scriptedSource{vals: []int{1}})

	o := &Outcome{ChallengeRating: 100}
	rewards := e.Distribute(o, nil, []string{"user1"}, 0)

	if got := rewards["user1"].Currency; got != 50 {
		t.Errorf("Currency = %d, want 100*0.5 = 50", got)
	}
	if got := rewards["user1"].XP; got != 100 {
		t.Errorf("XP = %v, want 100", got)
	}
}

func TestDistribute_RunnersExcluded(t *testing.T) {
	e := NewEngine(DefaultTunables(), &scriptedSource{vals: []int{1}})

	o := &Outcome{ChallengeRating: 25, Runners: []string{"coward"}}
	rewards := e.Distribute(o, nil, []string{"user1", "coward"}, 1)

	if _, ok := rewards["coward"]; ok {
		t.Error("Expected no reward for a runner")
	}
	if _, ok := rewards["user1"]; !ok {
		t.Error("Expected reward for the fighter")
	}
}

func TestDistribute_TreasureTierNotDivided(t *testing.T) {
	e := NewEngine(DefaultTunables(), &scriptedSource{vals: []int{1}})

	o := &Outcome{ChallengeRating: 250, TreasureTier: item.RarityEpic}
	rewards := e.Distribute(o, nil, []string{"a", "b", "c"}, 1)

	for u, r := range rewards {
		if r.Tier != item.RarityEpic {
			t.Errorf("Participant %s tier = %q, want epic", u, r.Tier)
		}
	}
}

func TestDistribute_RangerPetBonus(t *testing.T) {
	ranger := character.New("ranger")
	ranger.Class = character.HeroClass{
		Kind:          character.ClassRanger,
		AbilityActive: true,
		Pet:           &character.Pet{Name: "wolf", Bonus: 2},
	}
	chars := map[string]*character.Character{"ranger": ranger}
	o := &Outcome{ChallengeRating: 100}

	// Intn(5) == 0 wins the 1-in-5 chance.
	e := NewEngine(DefaultTunables(), &scriptedSource{vals: []int{0}})
	rewards := e.Distribute(o, chars, []string{"ranger"}, 1)

	r := rewards["ranger"]
	if !r.PetBonus {
		t.Fatal("Expected pet bonus to trigger")
	}
	if r.XP != 200 || r.Currency != 200 {
		t.Errorf("Reward = (%v xp, %d currency), want doubled (200, 200)", r.XP, r.Currency)
	}

	// Any other draw: flat base amounts.
	e = NewEngine(DefaultTunables(), &scriptedSource{vals: []int{3}})
	r = e.Distribute(o, chars, []string{"ranger"}, 1)["ranger"]
	if r.PetBonus || r.XP != 100 {
		t.Errorf("Expected flat reward, got %+v", r)
	}
}

func TestApplyReward(t *testing.T) {
	c := character.New("user1")
	ApplyReward(c, Reward{
		XP:         10000,
		Tier:       item.RarityRare,
		BonusChest: true,
	})

	if c.Level() != 10 {
		t.Errorf("Level = %d, want 10", c.Level())
	}
	if c.Chests[item.RarityRare] != 1 {
		t.Error("Expected one rare chest")
	}
	if c.Chests[item.RarityNormal] != 1 {
		t.Error("Expected the crit bonus chest")
	}
}
