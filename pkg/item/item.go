// Package item defines the gear model: equipment slots, rarity tiers and
// the Item value type with its five stat bonuses. Items are created by loot
// rolls, forging, the trader or an admin grant, and are owned in counts
// rather than duplicated entries.
package item

import (
	"encoding/json"
	"fmt"
)

// Slot identifies one of the eleven equipment slots.
type Slot string

const (
	SlotHead   Slot = "head"
	SlotNeck   Slot = "neck"
	SlotChest  Slot = "chest"
	SlotGloves Slot = "gloves"
	SlotBelt   Slot = "belt"
	SlotLegs   Slot = "legs"
	SlotBoots  Slot = "boots"
	SlotLeft   Slot = "left"
	SlotRight  Slot = "right"
	SlotRing   Slot = "ring"
	SlotCharm  Slot = "charm"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{
	SlotHead, SlotNeck, SlotChest, SlotGloves, SlotBelt,
	SlotLegs, SlotBoots, SlotLeft, SlotRight, SlotRing, SlotCharm,
}

// TwoHanded is the slot pair occupied by a two-handed item.
var TwoHanded = []Slot{SlotLeft, SlotRight}

// IsValidSlot reports whether s names a real equipment slot.
func IsValidSlot(s Slot) bool {
	for _, known := range Slots {
		if s == known {
			return true
		}
	}
	return false
}

// Item is a single piece of gear. Stats contribute to the owner's derived
// totals while equipped; Owned tracks duplicates in the backpack.
type Item struct {
	Name   string `json:"name"`
	Slots  []Slot `json:"slot"`
	Rarity Rarity `json:"rarity"`
	Att    int    `json:"att"`
	Cha    int    `json:"cha"`
	Int    int    `json:"int"`
	Dex    int    `json:"dex"`
	Luck   int    `json:"luck"`
	Owned  int    `json:"owned"`
}

// TwoHanded reports whether the item occupies both hand slots.
func (i *Item) TwoHanded() bool {
	return len(i.Slots) == 2
}

// Stat returns the named stat bonus. Unknown names return 0.
func (i *Item) Stat(name string) int {
	switch name {
	case "att":
		return i.Att
	case "cha":
		return i.Cha
	case "int":
		return i.Int
	case "dex":
		return i.Dex
	case "luck":
		return i.Luck
	}
	return 0
}

// MaxStat returns the largest of the item's five stat bonuses.
func (i *Item) MaxStat() int {
	m := i.Att
	for _, v := range []int{i.Cha, i.Int, i.Dex, i.Luck} {
		if v > m {
			m = v
		}
	}
	return m
}

// Clone returns a copy of the item with an independent slot list.
func (i *Item) Clone() *Item {
	c := *i
	c.Slots = append([]Slot(nil), i.Slots...)
	return &c
}

// DisplayName returns the legacy decorated name for the item's rarity.
func (i *Item) DisplayName() string {
	return DecorateName(i.Name, i.Rarity)
}

// Validate checks the structural invariants of a stored item.
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item has no name")
	}
	if len(i.Slots) < 1 || len(i.Slots) > 2 {
		return fmt.Errorf("item %q has %d slots, want 1 or 2", i.Name, len(i.Slots))
	}
	for _, s := range i.Slots {
		if !IsValidSlot(s) {
			return fmt.Errorf("item %q has unknown slot %q", i.Name, s)
		}
	}
	if !i.Rarity.IsValid() {
		return fmt.Errorf("item %q has unknown rarity %q", i.Name, i.Rarity)
	}
	if i.Owned < 0 {
		return fmt.Errorf("item %q has negative owned count %d", i.Name, i.Owned)
	}
	return nil
}

// storedItem is the persisted JSON shape. Rarity is stored explicitly;
// records written before the rarity field existed carry it only in the
// decorated name, which UnmarshalJSON falls back to.
type storedItem struct {
	Name   string `json:"name"`
	Slots  []Slot `json:"slot"`
	Rarity string `json:"rarity,omitempty"`
	Att    int    `json:"att"`
	Cha    int    `json:"cha"`
	Int    int    `json:"int"`
	Dex    int    `json:"dex"`
	Luck   int    `json:"luck"`
	Owned  int    `json:"owned"`
}

// MarshalJSON writes the explicit-rarity form with an undecorated name.
func (i *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(storedItem{
		Name:   i.Name,
		Slots:  i.Slots,
		Rarity: i.Rarity.String(),
		Att:    i.Att,
		Cha:    i.Cha,
		Int:    i.Int,
		Dex:    i.Dex,
		Luck:   i.Luck,
		Owned:  i.Owned,
	})
}

// UnmarshalJSON reads an item, migrating legacy records whose rarity is
// encoded only in the decorated name.
func (i *Item) UnmarshalJSON(data []byte) error {
	var s storedItem
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal item: %w", err)
	}

	name := s.Name
	rarity := Rarity(s.Rarity)
	if s.Rarity == "" {
		// Legacy record: recover rarity from the decorated name.
		name, rarity = ParseDecoratedName(s.Name)
	}

	i.Name = name
	i.Slots = s.Slots
	i.Rarity = rarity
	i.Att = s.Att
	i.Cha = s.Cha
	i.Int = s.Int
	i.Dex = s.Dex
	i.Luck = s.Luck
	i.Owned = s.Owned
	return i.Validate()
}
