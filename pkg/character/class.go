package character

import (
	"fmt"
	"time"
)

// ClassKind names a hero class. Each class changes how the resolution
// engine treats the character's rolls when its ability is active.
type ClassKind string

const (
	ClassHero      ClassKind = "hero"
	ClassWizard    ClassKind = "wizard"
	ClassTinkerer  ClassKind = "tinkerer"
	ClassBerserker ClassKind = "berserker"
	ClassCleric    ClassKind = "cleric"
	ClassRanger    ClassKind = "ranger"
	ClassBard      ClassKind = "bard"
	ClassPsychic   ClassKind = "psychic"
)

// ClassKinds lists every selectable class.
var ClassKinds = []ClassKind{
	ClassHero, ClassWizard, ClassTinkerer, ClassBerserker,
	ClassCleric, ClassRanger, ClassBard, ClassPsychic,
}

// IsValid reports whether k names a known class.
func (k ClassKind) IsValid() bool {
	for _, known := range ClassKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Pet is a Ranger companion. Bonus multiplies adventure rewards when the
// Ranger's ability is active.
type Pet struct {
	Name  string  `json:"name"`
	Bonus float64 `json:"bonus"`
}

// HeroClass is the class state carried by a character. Kind selects the
// variant; AbilityActive and CooldownAt are shared by every class, while
// Pet and CatchCooldownAt are meaningful only for Rangers.
type HeroClass struct {
	Kind          ClassKind `json:"kind"`
	AbilityActive bool      `json:"ability_active,omitempty"`
	CooldownAt    int64     `json:"cooldown,omitempty"` // unix seconds

	// Ranger fields.
	Pet             *Pet  `json:"pet,omitempty"`
	CatchCooldownAt int64 `json:"catch_cooldown,omitempty"`
}

// NewHeroClass returns the class state for a freshly chosen class.
func NewHeroClass(kind ClassKind) (HeroClass, error) {
	if !kind.IsValid() {
		return HeroClass{}, fmt.Errorf("unknown class %q", kind)
	}
	return HeroClass{Kind: kind}, nil
}

// OnCooldown reports whether the class ability is still cooling down.
func (h *HeroClass) OnCooldown(now time.Time) bool {
	return now.Unix() < h.CooldownAt
}

// HasActivePet reports whether the character is a Ranger with an active
// ability and a pet. Only such characters qualify for the pet reward bonus.
func (h *HeroClass) HasActivePet() bool {
	return h.Kind == ClassRanger && h.AbilityActive && h.Pet != nil
}

// Validate checks that variant-only fields match the kind.
func (h *HeroClass) Validate() error {
	if !h.Kind.IsValid() {
		return fmt.Errorf("unknown class %q", h.Kind)
	}
	if h.Kind != ClassRanger && (h.Pet != nil || h.CatchCooldownAt != 0) {
		return fmt.Errorf("class %q cannot carry ranger fields", h.Kind)
	}
	return nil
}
