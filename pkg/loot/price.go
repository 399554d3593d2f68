package loot

import (
	"errors"

	"github.com/wuggawugga/adventurebot/pkg/item"
)

// ErrNotSellable means the item's rarity is exempt from ordinary sale.
var ErrNotSellable = errors.New("item cannot be sold")

// priceRanges is the base sale price range per rarity, before the stat
// and luck adjustments. Forged items are deliberately absent.
var priceRanges = map[item.Rarity][2]int64{
	item.RarityNormal:    {10, 100},
	item.RarityRare:      {100, 500},
	item.RarityEpic:      {500, 1000},
	item.RarityLegendary: {1000, 2000},
	item.RarityAscended:  {5000, 10000},
	item.RaritySet:       {2000, 5000},
	item.RarityEvent:     {100, 500},
}

// SalePrice rolls the sale price for an item: a base draw from the
// rarity's range, multiplied by the item's highest stat (minimum 1),
// then adjusted upward by the seller's luck at one percent per point.
func SalePrice(it *item.Item, luck int, rng Source) (int64, error) {
	base, ok := priceRanges[it.Rarity]
	if !ok {
		return 0, ErrNotSellable
	}

	price := base[0] + int64(rng.Intn(int(base[1]-base[0]+1)))

	mult := int64(it.MaxStat())
	if mult < 1 {
		mult = 1
	}
	price *= mult

	if luck > 0 {
		price += price * int64(luck) / 100
	}
	return price, nil
}
