package gems

// GemRarity is the tier of a gem awarded for a correct practice attempt.
// The set is closed and totally ordered: NewDiscovery < Common < Uncommon <
// Rare < Epic < Legendary. The order is used for capping and upgrading.
type GemRarity string

const (
	NewDiscovery GemRarity = "new_discovery"
	Common       GemRarity = "common"
	Uncommon     GemRarity = "uncommon"
	Rare         GemRarity = "rare"
	Epic         GemRarity = "epic"
	Legendary    GemRarity = "legendary"
)

// rarityOrder maps each rarity to its position in the total order.
var rarityOrder = map[GemRarity]int{
	NewDiscovery: 0,
	Common:       1,
	Uncommon:     2,
	Rare:         3,
	Epic:         4,
	Legendary:    5,
}

// rarityByOrder is the inverse of rarityOrder.
var rarityByOrder = []GemRarity{
	NewDiscovery,
	Common,
	Uncommon,
	Rare,
	Epic,
	Legendary,
}

// IsValid reports whether r is one of the six known rarities.
func (r GemRarity) IsValid() bool {
	_, ok := rarityOrder[r]
	return ok
}

// Less reports whether r ranks strictly below other.
func (r GemRarity) Less(other GemRarity) bool {
	return rarityOrder[r] < rarityOrder[other]
}

// Upgrade returns the rarity one tier above r, saturating at Legendary.
func (r GemRarity) Upgrade() GemRarity {
	idx := rarityOrder[r]
	if idx >= len(rarityByOrder)-1 {
		return Legendary
	}
	return rarityByOrder[idx+1]
}

// CapAt returns r limited to at most cap in the total order.
func (r GemRarity) CapAt(cap GemRarity) GemRarity {
	if cap.IsValid() && cap.Less(r) {
		return cap
	}
	return r
}

// AllRarities returns the six rarities in ascending order.
func AllRarities() []GemRarity {
	out := make([]GemRarity, len(rarityByOrder))
	copy(out, rarityByOrder)
	return out
}
