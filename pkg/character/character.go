// Package character holds the persistent state of one player: equipped
// gear, backpack, class, skill allocation, experience and treasure chests.
// A character is mutated only while its owner's lock is held and is
// persisted back as a single whole-record write.
package character

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/wuggawugga/adventurebot/pkg/item"
)

// ErrCorruptRecord means a stored character could not be deserialized.
// Callers log it and abort the triggering command without mutating the
// stored record.
var ErrCorruptRecord = errors.New("corrupt character record")

// ErrSkillPoints means a skill allocation would overdraw the pool.
var ErrSkillPoints = errors.New("not enough skill points")

// Character is one player's full persistent state.
type Character struct {
	UserID   string
	Exp      float64
	Class    HeroClass
	Equipped map[item.Slot]*item.Item
	Backpack map[string]*item.Item
	Loadouts map[string]map[item.Slot]string

	// Skill points: Pool is unspent, the rest are permanent allocations.
	SkillPool int
	SkillAtt  int
	SkillCha  int
	SkillInt  int

	Chests   map[item.Rarity]int
	Balance  int64 // cached ledger balance, refreshed on load
	Rebirths int
}

// New returns a fresh level-0 character with default class and empty gear.
func New(userID string) *Character {
	return &Character{
		UserID:   userID,
		Class:    HeroClass{Kind: ClassHero},
		Equipped: make(map[item.Slot]*item.Item),
		Backpack: make(map[string]*item.Item),
		Loadouts: make(map[string]map[item.Slot]string),
		Chests:   make(map[item.Rarity]int),
	}
}

// Level derives the character level from experience.
func (c *Character) Level() int {
	if c.Exp <= 0 {
		return 0
	}
	// Epsilon keeps exact fourth powers (10000 -> 10) from flooring one
	// level short due to Pow rounding.
	return int(math.Floor(math.Pow(c.Exp, 0.25) + 1e-9))
}

// equippedItems returns each distinct equipped item once.
func (c *Character) equippedItems() []*item.Item {
	seen := make(map[*item.Item]bool, len(c.Equipped))
	items := make([]*item.Item, 0, len(c.Equipped))
	for _, it := range c.Equipped {
		if it == nil || seen[it] {
			continue
		}
		seen[it] = true
		items = append(items, it)
	}
	return items
}

// statTotal sums one stat over equipped gear. A two-handed item occupies
// both hand slots and therefore counts double.
func (c *Character) statTotal(stat string) int {
	total := 0
	for _, it := range c.equippedItems() {
		v := it.Stat(stat)
		if it.TwoHanded() {
			v *= 2
		}
		total += v
	}
	return total
}

// TotalAtt is the character's attack stat: equipped gear plus permanently
// allocated attack skill points.
func (c *Character) TotalAtt() int { return c.statTotal("att") + c.SkillAtt }

// TotalCha is the charisma stat, used for diplomacy rolls.
func (c *Character) TotalCha() int { return c.statTotal("cha") + c.SkillCha }

// TotalInt is the intelligence stat, used for magic rolls.
func (c *Character) TotalInt() int { return c.statTotal("int") + c.SkillInt }

// TotalDex is the dexterity stat, used to reduce the repair tax.
func (c *Character) TotalDex() int { return c.statTotal("dex") }

// TotalLuck is the luck stat, used in sale pricing.
func (c *Character) TotalLuck() int { return c.statTotal("luck") }

// BackpackAdd moves one copy of it into the backpack, aggregating by name.
func (c *Character) BackpackAdd(it *item.Item) {
	if existing, ok := c.Backpack[it.Name]; ok {
		existing.Owned++
		return
	}
	stored := it.Clone()
	stored.Owned = 1
	c.Backpack[it.Name] = stored
}

// BackpackRemove takes one copy of the named item out of the backpack and
// returns it, or nil if the item is not owned. The entry is deleted when
// the owned count reaches zero.
func (c *Character) BackpackRemove(name string) *item.Item {
	stored, ok := c.Backpack[name]
	if !ok {
		return nil
	}
	stored.Owned--
	if stored.Owned <= 0 {
		delete(c.Backpack, name)
	}
	taken := stored.Clone()
	taken.Owned = 1
	return taken
}

// Equip installs it into every slot it occupies. Items already in those
// slots are displaced to the backpack first, so a two-handed item can bump
// two single-hand items at once. When fromBackpack is true one owned copy
// is consumed from the backpack.
func (c *Character) Equip(it *item.Item, fromBackpack bool) {
	if fromBackpack {
		if taken := c.BackpackRemove(it.Name); taken != nil {
			it = taken
		}
	}

	displaced := make(map[*item.Item]bool)
	for _, slot := range it.Slots {
		if old := c.Equipped[slot]; old != nil {
			displaced[old] = true
		}
	}
	for old := range displaced {
		c.unequipSlots(old)
		c.BackpackAdd(old)
	}

	equipped := it.Clone()
	equipped.Owned = 1
	for _, slot := range equipped.Slots {
		c.Equipped[slot] = equipped
	}
}

// Unequip moves an equipped item back to the backpack and clears its
// slots. Unknown items are a no-op.
func (c *Character) Unequip(name string) bool {
	for _, it := range c.equippedItems() {
		if it.Name == name {
			c.unequipSlots(it)
			c.BackpackAdd(it)
			return true
		}
	}
	return false
}

func (c *Character) unequipSlots(it *item.Item) {
	for slot, cur := range c.Equipped {
		if cur == it {
			delete(c.Equipped, slot)
		}
	}
}

// SaveLoadout snapshots the current equip slots under a name.
func (c *Character) SaveLoadout(name string) {
	snap := make(map[item.Slot]string, len(c.Equipped))
	for slot, it := range c.Equipped {
		if it != nil {
			snap[slot] = it.Name
		}
	}
	c.Loadouts[name] = snap
}

// EquipLoadout restores a saved loadout. Current gear is unequipped to the
// backpack first. A slot whose item is no longer owned is silently left
// empty.
func (c *Character) EquipLoadout(name string) bool {
	snap, ok := c.Loadouts[name]
	if !ok {
		return false
	}

	for _, it := range c.equippedItems() {
		c.unequipSlots(it)
		c.BackpackAdd(it)
	}

	done := make(map[string]bool)
	for _, wantName := range snap {
		if done[wantName] {
			continue // two-handed items appear under both hand slots
		}
		done[wantName] = true
		if taken := c.BackpackRemove(wantName); taken != nil {
			c.Equip(taken, false)
		}
	}
	return true
}

// AddExp grants experience. On level-up the unspent skill pool is
// recomputed as floor(level/5) minus permanent allocations, floored at
// zero.
func (c *Character) AddExp(xp float64) {
	before := c.Level()
	c.Exp += xp
	after := c.Level()
	if after > before {
		pool := after/5 - (c.SkillAtt + c.SkillCha + c.SkillInt)
		if pool < 0 {
			pool = 0
		}
		c.SkillPool = pool
	}
}

// AllocateSkill permanently spends points from the pool on one stat.
func (c *Character) AllocateSkill(stat string, points int) error {
	if points <= 0 || points > c.SkillPool {
		return ErrSkillPoints
	}
	switch stat {
	case "att":
		c.SkillAtt += points
	case "cha":
		c.SkillCha += points
	case "int":
		c.SkillInt += points
	default:
		return fmt.Errorf("unknown skill stat %q", stat)
	}
	c.SkillPool -= points
	return nil
}

// AddChest grants treasure chests of a rarity tier.
func (c *Character) AddChest(rarity item.Rarity, n int) {
	if n <= 0 {
		return
	}
	c.Chests[rarity] += n
}

// TakeChest consumes one chest of the tier, reporting whether one existed.
func (c *Character) TakeChest(rarity item.Rarity) bool {
	if c.Chests[rarity] <= 0 {
		return false
	}
	c.Chests[rarity]--
	if c.Chests[rarity] == 0 {
		delete(c.Chests, rarity)
	}
	return true
}

// Rebirth resets experience and skill allocation in exchange for a
// permanent rebirth counter increment. Gear and chests are kept.
func (c *Character) Rebirth() {
	c.Exp = 0
	c.SkillPool = 0
	c.SkillAtt = 0
	c.SkillCha = 0
	c.SkillInt = 0
	c.Class.AbilityActive = false
	c.Rebirths++
}

// storedCharacter is the persisted JSON shape. Missing keys default on
// load so records written by older versions keep working.
type storedCharacter struct {
	UserID    string                          `json:"user_id"`
	Exp       float64                         `json:"exp"`
	Class     HeroClass                       `json:"class"`
	Equipped  map[item.Slot]*item.Item        `json:"equipped,omitempty"`
	Backpack  map[string]*item.Item           `json:"backpack,omitempty"`
	Loadouts  map[string]map[item.Slot]string `json:"loadouts,omitempty"`
	SkillPool int                             `json:"skill_pool,omitempty"`
	SkillAtt  int                             `json:"skill_att,omitempty"`
	SkillCha  int                             `json:"skill_cha,omitempty"`
	SkillInt  int                             `json:"skill_int,omitempty"`
	Chests    map[item.Rarity]int             `json:"chests,omitempty"`
	Balance   int64                           `json:"balance,omitempty"`
	Rebirths  int                             `json:"rebirths,omitempty"`
}

// Marshal serializes the character for an atomic whole-record write. The
// two-handed pointer aliasing between hand slots is collapsed to the left
// slot so it is not stored twice.
func (c *Character) Marshal() ([]byte, error) {
	equipped := make(map[item.Slot]*item.Item, len(c.Equipped))
	for slot, it := range c.Equipped {
		if it.TwoHanded() && slot == item.SlotRight {
			continue
		}
		equipped[slot] = it
	}

	return json.Marshal(storedCharacter{
		UserID:    c.UserID,
		Exp:       c.Exp,
		Class:     c.Class,
		Equipped:  equipped,
		Backpack:  c.Backpack,
		Loadouts:  c.Loadouts,
		SkillPool: c.SkillPool,
		SkillAtt:  c.SkillAtt,
		SkillCha:  c.SkillCha,
		SkillInt:  c.SkillInt,
		Chests:    c.Chests,
		Balance:   c.Balance,
		Rebirths:  c.Rebirths,
	})
}

// Unmarshal reconstructs a character from its stored form. Any malformed
// stored item makes the whole record corrupt; the caller must abort
// without mutating the stored record.
func Unmarshal(data []byte) (*Character, error) {
	var s storedCharacter
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if s.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrCorruptRecord)
	}
	if s.Class.Kind == "" {
		s.Class.Kind = ClassHero
	}
	if err := s.Class.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	c := New(s.UserID)
	c.Exp = s.Exp
	c.Class = s.Class
	c.SkillPool = s.SkillPool
	c.SkillAtt = s.SkillAtt
	c.SkillCha = s.SkillCha
	c.SkillInt = s.SkillInt
	c.Balance = s.Balance
	c.Rebirths = s.Rebirths

	for slot, it := range s.Equipped {
		if it == nil {
			continue
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("%w: equipped %s: %v", ErrCorruptRecord, slot, err)
		}
		// Re-establish the hand-slot aliasing for two-handed items.
		for _, occupied := range it.Slots {
			c.Equipped[occupied] = it
		}
	}
	for name, it := range s.Backpack {
		if it == nil {
			continue
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("%w: backpack %q: %v", ErrCorruptRecord, name, err)
		}
		c.Backpack[name] = it
	}
	if s.Loadouts != nil {
		c.Loadouts = s.Loadouts
	}
	if s.Chests != nil {
		c.Chests = s.Chests
	}
	return c, nil
}
