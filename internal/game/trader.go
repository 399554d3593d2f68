package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/ledger"
	"github.com/wuggawugga/adventurebot/pkg/loot"
)

const (
	traderCartSize = 4
	traderCooldown = 15 * time.Minute
	traderWindow   = 2 * time.Minute
	maxPurchaseQty = 10
)

var listingEmoji = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣"}

// MaybeSpawnTrader rolls the wandering trader's spawn chance for a
// qualifying message. The per-guild cooldown and the guild's settings
// gate the roll; most calls return without doing anything.
func (s *Service) MaybeSpawnTrader(ctx context.Context, guildID, channel string) error {
	settings, err := s.store.GetGuildSettings(ctx, guildID)
	if err != nil {
		return err
	}
	if settings != nil && settings.TraderDisabled {
		return nil
	}

	s.traderMu.Lock()
	last := s.lastTrader[guildID]
	if s.now().Sub(last) < traderCooldown {
		s.traderMu.Unlock()
		return nil
	}
	spawn := loot.ShouldSpawn(s.rng)
	if spawn {
		s.lastTrader[guildID] = s.now()
	}
	s.traderMu.Unlock()

	if !spawn {
		return nil
	}
	return s.SpawnTrader(ctx, guildID, channel)
}

// SpawnTrader opens a trader cart immediately, bypassing the spawn roll.
// Used by admin triggers. Purchases are served until the cart window
// closes; a timeout or an underfunded buyer cancels only that purchase.
func (s *Service) SpawnTrader(ctx context.Context, guildID, channel string) error {
	cart := loot.GenerateCart(s.generator(), s.rng, traderCartSize)

	msg, err := s.prompter.SendMessage(ctx, channel, cartPrompt(cart))
	if err != nil {
		return fmt.Errorf("failed to announce trader: %w", err)
	}

	deadline := s.now().Add(traderWindow)
	for {
		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			return nil
		}

		r, ok, err := s.prompter.AwaitReaction(ctx, msg, listingEmoji[:len(cart)], remaining)
		if err != nil {
			s.logger.Warn("Trader reaction wait failed", "guild", guildID, "error", err)
			return nil
		}
		if !ok {
			// Cart leaves silently.
			return nil
		}

		idx := listingIndex(r.Emoji)
		if idx < 0 || idx >= len(cart) {
			continue
		}
		if err := s.purchase(ctx, r.UserID, channel, cart[idx]); err != nil {
			s.logger.Debug("Purchase failed", "guild", guildID, "user", r.UserID, "error", err)
		}
	}
}

func listingIndex(emoji string) int {
	for i, e := range listingEmoji {
		if e == emoji {
			return i
		}
	}
	return -1
}

// purchase runs the quantity prompt and settles one buyer's order.
// Timeouts cancel silently; insufficient funds cancel with a message and
// no mutation.
func (s *Service) purchase(ctx context.Context, userID, channel string, l loot.Listing) error {
	qty := s.promptQuantity(ctx, userID, channel, l)
	if qty <= 0 {
		return nil
	}

	total := l.Price * int64(qty)
	return s.withCharacter(ctx, userID, func(c *character.Character) error {
		if err := s.ledger.Withdraw(ctx, userID, total); err != nil {
			if errors.Is(err, ledger.ErrInsufficientFunds) {
				_, _ = s.prompter.SendMessage(ctx, channel,
					fmt.Sprintf("You cannot afford %d× %s.", qty, listingLabel(l)))
				return nil
			}
			return err
		}

		if l.IsChest() {
			c.AddChest(l.ChestTier, qty)
			return nil
		}
		for i := 0; i < qty; i++ {
			c.BackpackAdd(l.Item.Clone())
		}
		return nil
	})
}

// promptQuantity asks the buyer how many they want. Zero means the
// purchase is off.
func (s *Service) promptQuantity(ctx context.Context, userID, channel string, l loot.Listing) int {
	_, err := s.prompter.SendMessage(ctx, channel,
		fmt.Sprintf("How many %s at %s coins each? (1-%d)", listingLabel(l), FormatCurrency(l.Price), maxPurchaseQty))
	if err != nil {
		s.logger.Warn("Failed to prompt quantity", "user", userID, "error", err)
		return 0
	}

	content, ok, err := s.prompter.AwaitMessage(ctx, func(uid, content string) bool {
		if uid != userID {
			return false
		}
		_, convErr := strconv.Atoi(strings.TrimSpace(content))
		return convErr == nil
	}, s.reactionTimeout)
	if err != nil {
		s.logger.Warn("Quantity wait failed", "user", userID, "error", err)
		return 0
	}
	if !ok {
		return 0
	}

	qty, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || qty < 1 {
		return 0
	}
	if qty > maxPurchaseQty {
		qty = maxPurchaseQty
	}
	return qty
}

func listingLabel(l loot.Listing) string {
	if l.IsChest() {
		return fmt.Sprintf("%s chest", l.ChestTier)
	}
	return l.Item.DisplayName()
}

func cartPrompt(cart []loot.Listing) string {
	var b strings.Builder
	b.WriteString("A wandering trader sets up shop!\n")
	for i, l := range cart {
		fmt.Fprintf(&b, "%s %s — %s coins\n", listingEmoji[i], listingLabel(l), FormatCurrency(l.Price))
	}
	b.WriteString("React with a number to buy.")
	return b.String()
}
