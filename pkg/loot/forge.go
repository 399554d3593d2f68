package loot

import (
	"errors"
	"math"
	"strings"

	"github.com/wuggawugga/adventurebot/pkg/item"
)

// ErrForgeSameItem means both forge inputs are the same owned item.
var ErrForgeSameItem = errors.New("cannot forge an item with itself")

// forgeMods is the fixed roll-to-modifier table: 0.4 at a roll of 1,
// ascending stepwise to 1.2 at 20.
var forgeMods = [20]float64{
	0.40, 0.45, 0.50, 0.55, 0.60,
	0.65, 0.70, 0.75, 0.80, 0.85,
	0.90, 0.95, 1.00, 1.00, 1.05,
	1.05, 1.10, 1.10, 1.15, 1.20,
}

// ForgeMod returns the stat modifier for a 1-20 forge roll.
func ForgeMod(roll int) float64 {
	if roll < 1 {
		roll = 1
	}
	if roll > 20 {
		roll = 20
	}
	return forgeMods[roll-1]
}

// Forge consumes two items and produces one forged item. Given the same
// roll and slot pick, the stat block is fully deterministic: each stat is
// the rounded sum of the inputs' stat scaled by the roll's modifier. The
// slot set comes from one of the two inputs at random, and the result is
// always of forged rarity, which is exempt from ordinary sale.
func Forge(a, b *item.Item, roll int, rng Source) (*item.Item, error) {
	if a == nil || b == nil {
		return nil, errors.New("forge needs two items")
	}
	if a.Name == b.Name {
		return nil, ErrForgeSameItem
	}

	mod := ForgeMod(roll)
	blend := func(x, y int) int {
		return int(math.Round(float64(x+y) * mod))
	}

	slots := a.Slots
	if rng.Intn(2) == 1 {
		slots = b.Slots
	}

	return &item.Item{
		Name:   forgedName(a.Name, b.Name),
		Slots:  append([]item.Slot(nil), slots...),
		Rarity: item.RarityForged,
		Att:    blend(a.Att, b.Att),
		Cha:    blend(a.Cha, b.Cha),
		Int:    blend(a.Int, b.Int),
		Dex:    blend(a.Dex, b.Dex),
		Luck:   blend(a.Luck, b.Luck),
		Owned:  1,
	}, nil
}

// forgedName blends the first word of one input with the last word of
// the other.
func forgedName(a, b string) string {
	aw := strings.Fields(a)
	bw := strings.Fields(b)
	if len(aw) == 0 || len(bw) == 0 {
		return a + " " + b
	}
	return aw[0] + " " + bw[len(bw)-1]
}
