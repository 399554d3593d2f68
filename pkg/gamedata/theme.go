// Package gamedata loads and serves the static, theme-scoped tables the
// game reads: monsters, encounter attribute pairs, pets, loot name parts
// and trader pricing. A theme is a directory of JSON files; swapping a
// theme replaces the whole table set atomically.
package gamedata

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wuggawugga/adventurebot/pkg/item"
)

// Monster is one encounter challenge. Defense values are divisors applied
// to roll contributions, so 1.0 is neutral and higher is tougher.
type Monster struct {
	Name     string        `json:"name"`
	HP       float64       `json:"hp"`
	Dipl     float64       `json:"dipl"`
	PDef     float64       `json:"pdef"`
	MDef     float64       `json:"mdef"`
	CDef     float64       `json:"cdef"`
	Boss     bool          `json:"boss,omitempty"`
	Miniboss *MinibossGate `json:"miniboss,omitempty"`
	Image    string        `json:"image,omitempty"`
}

// MinibossGate is an item requirement that gates victory against a
// miniboss. Unless some participant has the required item equipped in the
// required slot, the encounter fails regardless of numeric outcome.
type MinibossGate struct {
	Requires string    `json:"requires"`
	Slot     item.Slot `json:"slot"`
}

// Attribute is a random flavor modifier pair for an encounter, scaling
// the monster's effective hp and diplomacy thresholds.
type Attribute struct {
	Name     string  `json:"name"`
	HPMult   float64 `json:"hp_mult"`
	DiplMult float64 `json:"dipl_mult"`
}

// Pet is a catchable Ranger companion template.
type Pet struct {
	Name        string  `json:"name"`
	Bonus       float64 `json:"bonus"`
	RequiredCha int     `json:"required_cha"`
}

// NameParts are the word lists loot generation draws item names from.
type NameParts struct {
	Adjectives []string `json:"adjectives"`
	Nouns      []string `json:"nouns"`
	Suffixes   []string `json:"suffixes"`
}

// Theme is one complete table set.
type Theme struct {
	Name       string
	Monsters   map[string]Monster
	Attributes []Attribute
	Pets       []Pet
	Names      NameParts
}

// Validate checks a theme for structural problems. All findings are
// joined into one error so a broken theme reports everything at once.
func (t *Theme) Validate() error {
	var errs []error

	if len(t.Monsters) == 0 {
		errs = append(errs, fmt.Errorf("theme %q has no monsters", t.Name))
	}
	for name, m := range t.Monsters {
		if m.HP <= 0 && m.Dipl <= 0 {
			errs = append(errs, fmt.Errorf("monster %q has neither hp nor dipl", name))
		}
		if m.PDef <= 0 || m.MDef <= 0 || m.CDef <= 0 {
			errs = append(errs, fmt.Errorf("monster %q has non-positive defense", name))
		}
		if m.Miniboss != nil {
			if m.Miniboss.Requires == "" {
				errs = append(errs, fmt.Errorf("miniboss %q requires no item", name))
			}
			if !item.IsValidSlot(m.Miniboss.Slot) {
				errs = append(errs, fmt.Errorf("miniboss %q requires unknown slot %q", name, m.Miniboss.Slot))
			}
		}
	}

	if len(t.Attributes) == 0 {
		errs = append(errs, fmt.Errorf("theme %q has no attribute pairs", t.Name))
	}
	for _, a := range t.Attributes {
		if a.HPMult <= 0 || a.DiplMult <= 0 {
			errs = append(errs, fmt.Errorf("attribute %q has non-positive multiplier", a.Name))
		}
	}

	for _, p := range t.Pets {
		if p.Bonus <= 0 {
			errs = append(errs, fmt.Errorf("pet %q has non-positive bonus", p.Name))
		}
	}

	if len(t.Names.Adjectives) == 0 || len(t.Names.Nouns) == 0 {
		errs = append(errs, fmt.Errorf("theme %q is missing loot name parts", t.Name))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid theme %q: %w", t.Name, errors.Join(errs...))
	}
	return nil
}

// Store holds the active theme and supports atomic swapping.
type Store struct {
	mu    sync.RWMutex
	theme *Theme
}

// NewStore returns a store serving the given theme.
func NewStore(t *Theme) *Store {
	return &Store{theme: t}
}

// Theme returns the active theme.
func (s *Store) Theme() *Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme swaps the entire table set in one step.
func (s *Store) SetTheme(t *Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
}
