package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wuggawugga/adventurebot/internal/game"
	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/item"
)

func characterClass(name string) character.ClassKind {
	return character.ClassKind(strings.ToLower(name))
}

func renderProfile(c *character.Character) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s — level %d (%.0f xp", c.UserID, c.Level(), c.Exp)
	if c.Rebirths > 0 {
		fmt.Fprintf(&b, ", rebirth %d", c.Rebirths)
	}
	b.WriteString(")\n")
	fmt.Fprintf(&b, "Class: %s", c.Class.Kind)
	if c.Class.Pet != nil {
		fmt.Fprintf(&b, " (pet: %s)", c.Class.Pet.Name)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "ATT %d  CHA %d  INT %d  DEX %d  LUCK %d  (skill pool: %d)\n",
		c.TotalAtt(), c.TotalCha(), c.TotalInt(), c.TotalDex(), c.TotalLuck(), c.SkillPool)
	fmt.Fprintf(&b, "Balance: %s coins\n", game.FormatCurrency(c.Balance))

	b.WriteString("Equipped:\n")
	for _, slot := range item.Slots {
		if it := c.Equipped[slot]; it != nil {
			fmt.Fprintf(&b, "  %-6s %s\n", slot, it.DisplayName())
		}
	}

	if len(c.Backpack) > 0 {
		names := make([]string, 0, len(c.Backpack))
		for n := range c.Backpack {
			names = append(names, n)
		}
		sort.Strings(names)
		b.WriteString("Backpack:\n")
		for _, n := range names {
			it := c.Backpack[n]
			if it.Owned > 1 {
				fmt.Fprintf(&b, "  %s ×%d\n", it.DisplayName(), it.Owned)
			} else {
				fmt.Fprintf(&b, "  %s\n", it.DisplayName())
			}
		}
	}

	if len(c.Chests) > 0 {
		b.WriteString("Chests:")
		for _, r := range []item.Rarity{item.RarityNormal, item.RarityRare, item.RarityEpic, item.RarityLegendary, item.RarityAscended} {
			if n := c.Chests[r]; n > 0 {
				fmt.Fprintf(&b, " %s×%d", r, n)
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
