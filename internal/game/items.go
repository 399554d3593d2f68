package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/item"
	"github.com/wuggawugga/adventurebot/pkg/ledger"
	"github.com/wuggawugga/adventurebot/pkg/loot"
)

// ErrNotOwned is returned when a command names an item the character's
// backpack does not hold.
var ErrNotOwned = errors.New("item not in backpack")

// ErrNoChest is returned when opening a chest tier the character has
// none of.
var ErrNoChest = errors.New("no chest of that tier")

// Equip moves a backpack item into its slot, displacing current gear
// back to the backpack.
func (s *Service) Equip(ctx context.Context, userID, itemName string) error {
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		it, ok := c.Backpack[itemName]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotOwned, itemName)
		}
		c.Equip(it, true)
		return nil
	})
}

// Unequip moves an equipped item back to the backpack.
func (s *Service) Unequip(ctx context.Context, userID, itemName string) error {
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		if !c.Unequip(itemName) {
			return fmt.Errorf("%w: %s", ErrNotOwned, itemName)
		}
		return nil
	})
}

// Sell removes one copy of a backpack item and deposits its sale price.
// Forged and event items are exempt from sale.
func (s *Service) Sell(ctx context.Context, userID, itemName string) (int64, error) {
	var price int64
	err := s.withCharacter(ctx, userID, func(c *character.Character) error {
		it, ok := c.Backpack[itemName]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotOwned, itemName)
		}
		p, err := loot.SalePrice(it, c.TotalLuck(), s.rng)
		if err != nil {
			return err
		}
		c.BackpackRemove(itemName)
		if err := ledger.DepositCapped(ctx, s.ledger, userID, p); err != nil {
			return err
		}
		price = p
		return nil
	})
	return price, err
}

// OpenChest consumes one treasure chest of the given tier and rolls its
// item, then asks the player what to do with it. No answer within the
// timeout puts the item in the backpack. The whole flow holds the user's
// lock so concurrent opens cannot lose an item or double-spend a chest.
func (s *Service) OpenChest(ctx context.Context, userID, channel string, tier item.Rarity) (*item.Item, string, error) {
	var rolled *item.Item
	disposition := "backpack"

	err := s.withCharacter(ctx, userID, func(c *character.Character) error {
		if !c.TakeChest(tier) {
			return fmt.Errorf("%w: %s", ErrNoChest, tier)
		}
		it := s.generator().Open(tier)
		rolled = it

		choice := s.promptItemChoice(ctx, userID, channel, it)
		switch choice {
		case "⚔️":
			c.Equip(it, false)
			disposition = "equipped"
		case "💰":
			price, err := loot.SalePrice(it, c.TotalLuck(), s.rng)
			if err != nil {
				// Unsellable roll falls back to the backpack.
				c.BackpackAdd(it)
				return nil
			}
			if err := ledger.DepositCapped(ctx, s.ledger, userID, price); err != nil {
				return err
			}
			disposition = "sold"
		default:
			c.BackpackAdd(it)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return rolled, disposition, nil
}

// promptItemChoice shows a freshly rolled item and waits for the owner's
// equip/sell/backpack reaction. Timeouts and other users' reactions both
// land on the default branch.
func (s *Service) promptItemChoice(ctx context.Context, userID, channel string, it *item.Item) string {
	msg, err := s.prompter.SendMessage(ctx, channel,
		fmt.Sprintf("You found %s! ⚔️ equip, 💰 sell, or 🎒 keep it.", it.DisplayName()))
	if err != nil {
		s.logger.Warn("Failed to prompt item choice", "user", userID, "error", err)
		return ""
	}
	r, ok, err := s.prompter.AwaitReaction(ctx, msg, []string{"⚔️", "💰", "🎒"}, s.reactionTimeout)
	if err != nil {
		s.logger.Warn("Item choice wait failed", "user", userID, "error", err)
		return ""
	}
	if !ok || r.UserID != userID {
		return ""
	}
	return r.Emoji
}
