package loot

import (
	"github.com/google/uuid"

	"github.com/wuggawugga/adventurebot/pkg/item"
)

// spawnChance is the 1-in-n chance the trader appears on a qualifying
// event.
const spawnChance = 20

// ShouldSpawn rolls the trader's random appearance.
func ShouldSpawn(rng Source) bool {
	return rng.Intn(spawnChance) == 0
}

// Listing is one purchasable slot in the trader's cart: either an item
// or a treasure chest of some tier.
type Listing struct {
	ID        uuid.UUID
	Item      *item.Item  // nil when the listing is a chest
	ChestTier item.Rarity // set when the listing is a chest
	Price     int64
}

// IsChest reports whether the listing sells a chest rather than an item.
func (l Listing) IsChest() bool {
	return l.Item == nil
}

// cartRarities weights the rarities the trader stocks. Normal and rare
// dominate; better tiers show up rarely.
var cartRarities = []item.Rarity{
	item.RarityNormal, item.RarityNormal, item.RarityNormal,
	item.RarityRare, item.RarityRare,
	item.RarityEpic,
}

// chestPrices is the trader's chest price range per tier.
var chestPrices = map[item.Rarity][2]int64{
	item.RarityNormal: {500, 1500},
	item.RarityRare:   {1500, 5000},
	item.RarityEpic:   {5000, 15000},
}

// GenerateCart stocks n listings of procedurally priced items and
// chests.
func GenerateCart(gen *Generator, rng Source, n int) []Listing {
	listings := make([]Listing, 0, n)
	for i := 0; i < n; i++ {
		rarity := cartRarities[rng.Intn(len(cartRarities))]

		// Roughly a quarter of the stock is chests.
		if rng.Intn(4) == 0 {
			bounds := chestPrices[rarity]
			listings = append(listings, Listing{
				ID:        uuid.New(),
				ChestTier: rarity,
				Price:     bounds[0] + int64(rng.Intn(int(bounds[1]-bounds[0]+1))),
			})
			continue
		}

		it := gen.Roll(rarity)
		price, err := SalePrice(it, 0, rng)
		if err != nil {
			// Trader stock never rolls unsellable rarities; fall back to
			// a flat price if the tables ever disagree.
			price = 1000
		}
		listings = append(listings, Listing{
			ID:    uuid.New(),
			Item:  it,
			Price: price * 2, // trader markup
		})
	}
	return listings
}
