// Package loot implements the item economy: procedural generation from
// rarity-weighted stat budgets, treasure chest opening, item fusion at
// the forge, sale pricing and the trader's cart stock.
package loot

import (
	"github.com/wuggawugga/adventurebot/pkg/gamedata"
	"github.com/wuggawugga/adventurebot/pkg/item"
)

// Source is the randomness provider for loot rolls. *math/rand.Rand
// satisfies it.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// statBudgets is the total stat-point range rolled per rarity tier.
var statBudgets = map[item.Rarity][2]int{
	item.RarityNormal:    {1, 5},
	item.RarityRare:      {5, 15},
	item.RarityEpic:      {10, 25},
	item.RarityLegendary: {20, 50},
	item.RarityAscended:  {40, 80},
	item.RaritySet:       {50, 100},
	item.RarityEvent:     {10, 25},
}

// twoHandedChance is the 1-in-n chance a hand-slot roll becomes a
// two-handed item.
const twoHandedChance = 5

// Generator produces procedural items from a theme's name parts.
type Generator struct {
	names gamedata.NameParts
	rng   Source
}

// NewGenerator returns a generator drawing names from the given parts.
func NewGenerator(names gamedata.NameParts, rng Source) *Generator {
	return &Generator{names: names, rng: rng}
}

// Open rolls the item inside a treasure chest of the given tier.
func (g *Generator) Open(tier item.Rarity) *item.Item {
	return g.Roll(tier)
}

// Roll generates a fresh item of the given rarity: a random slot set, a
// stat budget drawn from the tier's range and scattered across the five
// stats, and a name built from the theme's word lists.
func (g *Generator) Roll(rarity item.Rarity) *item.Item {
	budget := statBudgets[rarity]
	if budget[1] == 0 {
		budget = statBudgets[item.RarityNormal]
	}
	total := budget[0] + g.rng.Intn(budget[1]-budget[0]+1)

	it := &item.Item{
		Name:   g.name(rarity),
		Slots:  g.slots(),
		Rarity: rarity,
		Owned:  1,
	}

	stats := []*int{&it.Att, &it.Cha, &it.Int, &it.Dex, &it.Luck}
	for i := 0; i < total; i++ {
		*stats[g.rng.Intn(len(stats))]++
	}
	return it
}

// slots picks the slot set: one random slot, with a hand slot sometimes
// upgrading to a two-handed pair.
func (g *Generator) slots() []item.Slot {
	slot := item.Slots[g.rng.Intn(len(item.Slots))]
	if (slot == item.SlotLeft || slot == item.SlotRight) && g.rng.Intn(twoHandedChance) == 0 {
		return append([]item.Slot(nil), item.TwoHanded...)
	}
	return []item.Slot{slot}
}

// name builds an item name from the theme word lists. Epic and better
// items gain an "of ..." suffix when the theme provides one.
func (g *Generator) name(rarity item.Rarity) string {
	adj := g.names.Adjectives[g.rng.Intn(len(g.names.Adjectives))]
	noun := g.names.Nouns[g.rng.Intn(len(g.names.Nouns))]
	name := adj + " " + noun

	if len(g.names.Suffixes) > 0 {
		switch rarity {
		case item.RarityEpic, item.RarityLegendary, item.RarityAscended, item.RaritySet:
			name += " of " + g.names.Suffixes[g.rng.Intn(len(g.names.Suffixes))]
		}
	}
	return name
}
