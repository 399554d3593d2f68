package item

import "strings"

// Rarity is an item's quality tier. It scales loot stats and sale price.
type Rarity string

const (
	RarityNormal    Rarity = "normal"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityAscended  Rarity = "ascended"
	RaritySet       Rarity = "set"
	RarityForged    Rarity = "forged"
	RarityEvent     Rarity = "event"
)

// Rarities lists every tier in ascending quality order. Forged and event
// items sit outside the loot progression and sort last.
var Rarities = []Rarity{
	RarityNormal, RarityRare, RarityEpic, RarityLegendary,
	RarityAscended, RaritySet, RarityForged, RarityEvent,
}

// IsValid reports whether r is a known rarity tier.
func (r Rarity) IsValid() bool {
	for _, known := range Rarities {
		if r == known {
			return true
		}
	}
	return false
}

func (r Rarity) String() string {
	return string(r)
}

// DecorateName renders the legacy display encoding for a rarity. The
// encoding predates the explicit rarity field on stored records and must
// stay round-trip consistent with ParseDecoratedName so that old saves and
// new saves agree on the same item.
func DecorateName(name string, rarity Rarity) string {
	switch rarity {
	case RarityRare:
		return "." + strings.ReplaceAll(name, " ", "_")
	case RarityEpic:
		return "[" + name + "]"
	case RarityLegendary:
		return "{Legendary:'" + name + "'}"
	case RarityAscended:
		return "{Ascended:'" + name + "'}"
	case RaritySet:
		return "{Set:'" + name + "'}"
	case RarityForged:
		return "{.:'" + name + "':.}"
	case RarityEvent:
		return "{Event:'" + name + "'}"
	default:
		return name
	}
}

// ParseDecoratedName recovers the plain name and rarity from a decorated
// display string. Undecorated input is a normal item.
func ParseDecoratedName(decorated string) (string, Rarity) {
	switch {
	case strings.HasPrefix(decorated, ".") && len(decorated) > 1:
		return strings.ReplaceAll(decorated[1:], "_", " "), RarityRare
	case strings.HasPrefix(decorated, "[") && strings.HasSuffix(decorated, "]"):
		return decorated[1 : len(decorated)-1], RarityEpic
	case wrapped(decorated, "{.:'", "':.}"):
		return inner(decorated, "{.:'", "':.}"), RarityForged
	case wrapped(decorated, "{Legendary:'", "'}"):
		return inner(decorated, "{Legendary:'", "'}"), RarityLegendary
	case wrapped(decorated, "{Ascended:'", "'}"):
		return inner(decorated, "{Ascended:'", "'}"), RarityAscended
	case wrapped(decorated, "{Set:'", "'}"):
		return inner(decorated, "{Set:'", "'}"), RaritySet
	case wrapped(decorated, "{Event:'", "'}"):
		return inner(decorated, "{Event:'", "'}"), RarityEvent
	default:
		return decorated, RarityNormal
	}
}

func wrapped(s, prefix, suffix string) bool {
	return strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) &&
		len(s) > len(prefix)+len(suffix)
}

func inner(s, prefix, suffix string) string {
	return s[len(prefix) : len(s)-len(suffix)]
}
