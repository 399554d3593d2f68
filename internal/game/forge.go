package game

import (
	"context"
	"fmt"

	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/item"
	"github.com/wuggawugga/adventurebot/pkg/loot"
)

// Forge consumes two backpack items and smelts them into one forged
// item. A character may only own one forged item: if one already exists
// the player must confirm its destruction, otherwise the new item
// self-destructs. The consumed inputs are gone either way.
// The returned bool reports whether the new item was kept.
func (s *Service) Forge(ctx context.Context, userID, channel, nameA, nameB string) (*item.Item, bool, error) {
	var forged *item.Item
	kept := false

	err := s.withCharacter(ctx, userID, func(c *character.Character) error {
		a, ok := c.Backpack[nameA]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotOwned, nameA)
		}
		b, ok := c.Backpack[nameB]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotOwned, nameB)
		}

		roll := s.rng.Intn(20) + 1
		newIt, err := loot.Forge(a, b, roll, s.rng)
		if err != nil {
			return err
		}

		c.BackpackRemove(nameA)
		c.BackpackRemove(nameB)
		forged = newIt

		if old := existingForged(c); old != nil {
			if !s.confirmForgeReplace(ctx, userID, channel, old, newIt) {
				// New item self-destructs, never stored.
				return nil
			}
			c.Unequip(old.Name)
			c.BackpackRemove(old.Name)
		}

		c.BackpackAdd(newIt)
		kept = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return forged, kept, nil
}

// existingForged finds a character's current forged item, equipped or
// bagged.
func existingForged(c *character.Character) *item.Item {
	for _, it := range c.Equipped {
		if it != nil && it.Rarity == item.RarityForged {
			return it
		}
	}
	for _, it := range c.Backpack {
		if it.Rarity == item.RarityForged {
			return it
		}
	}
	return nil
}

// confirmForgeReplace asks the owner to confirm destroying their old
// forged item. Timeout or anyone else's reaction declines.
func (s *Service) confirmForgeReplace(ctx context.Context, userID, channel string, old, repl *item.Item) bool {
	msg, err := s.prompter.SendMessage(ctx, channel,
		fmt.Sprintf("You already own %s. React 🔥 to destroy it and keep %s.", old.DisplayName(), repl.DisplayName()))
	if err != nil {
		s.logger.Warn("Failed to prompt forge replacement", "user", userID, "error", err)
		return false
	}
	r, ok, err := s.prompter.AwaitReaction(ctx, msg, []string{"🔥"}, s.reactionTimeout)
	if err != nil {
		s.logger.Warn("Forge confirmation wait failed", "user", userID, "error", err)
		return false
	}
	return ok && r.UserID == userID && r.Emoji == "🔥"
}
