// ==================================
// File: internal/catalog/catalog.go
// ==================================
package catalog

// Rarity is one of the seven ordered card quality tiers.
type Rarity uint8

const (
	Common Rarity = iota
	Uncommon
	Rare
	DoubleRare
	VeryRare
	SuperRare
	MegaRare
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case DoubleRare:
		return "double_rare"
	case VeryRare:
		return "very_rare"
	case SuperRare:
		return "super_rare"
	case MegaRare:
		return "mega_rare"
	}
	return "unknown"
}

// NextRarity returns the next tier up, or false for MegaRare.
func NextRarity(r Rarity) (Rarity, bool) {
	if r >= MegaRare {
		return r, false
	}
	return r + 1, true
}

// Template is the immutable per-card stat block. Player cards are
// copies of a template tagged with its id.
type Template struct {
	ID               uint16
	Rarity           Rarity
	Hashpower        uint16
	BerryConsumption uint8
}

// StarterCardIDs are granted (unstaked) with the initial farm purchase.
var StarterCardIDs = [3]uint16{1, 2, 3}

// templates is the full card table, ordered by id. Hashpower and berry
// consumption both climb with rarity so that staking a stronger card
// always costs more capacity.
var templates = []Template{
	// Common
	{ID: 1, Rarity: Common, Hashpower: 4, BerryConsumption: 1},
	{ID: 2, Rarity: Common, Hashpower: 5, BerryConsumption: 1},
	{ID: 3, Rarity: Common, Hashpower: 6, BerryConsumption: 1},
	{ID: 4, Rarity: Common, Hashpower: 7, BerryConsumption: 1},
	{ID: 5, Rarity: Common, Hashpower: 8, BerryConsumption: 2},
	{ID: 6, Rarity: Common, Hashpower: 9, BerryConsumption: 2},
	{ID: 7, Rarity: Common, Hashpower: 10, BerryConsumption: 2},
	{ID: 8, Rarity: Common, Hashpower: 11, BerryConsumption: 2},
	// Uncommon
	{ID: 20, Rarity: Uncommon, Hashpower: 14, BerryConsumption: 2},
	{ID: 21, Rarity: Uncommon, Hashpower: 16, BerryConsumption: 3},
	{ID: 22, Rarity: Uncommon, Hashpower: 18, BerryConsumption: 3},
	{ID: 23, Rarity: Uncommon, Hashpower: 20, BerryConsumption: 3},
	{ID: 24, Rarity: Uncommon, Hashpower: 22, BerryConsumption: 4},
	{ID: 25, Rarity: Uncommon, Hashpower: 24, BerryConsumption: 4},
	// Rare
	{ID: 40, Rarity: Rare, Hashpower: 30, BerryConsumption: 4},
	{ID: 41, Rarity: Rare, Hashpower: 34, BerryConsumption: 5},
	{ID: 42, Rarity: Rare, Hashpower: 38, BerryConsumption: 5},
	{ID: 43, Rarity: Rare, Hashpower: 42, BerryConsumption: 6},
	{ID: 44, Rarity: Rare, Hashpower: 46, BerryConsumption: 6},
	// Double rare
	{ID: 60, Rarity: DoubleRare, Hashpower: 60, BerryConsumption: 7},
	{ID: 61, Rarity: DoubleRare, Hashpower: 68, BerryConsumption: 8},
	{ID: 62, Rarity: DoubleRare, Hashpower: 76, BerryConsumption: 9},
	{ID: 63, Rarity: DoubleRare, Hashpower: 84, BerryConsumption: 10},
	// Very rare
	{ID: 80, Rarity: VeryRare, Hashpower: 110, BerryConsumption: 12},
	{ID: 81, Rarity: VeryRare, Hashpower: 125, BerryConsumption: 13},
	{ID: 82, Rarity: VeryRare, Hashpower: 140, BerryConsumption: 15},
	// Super rare
	{ID: 90, Rarity: SuperRare, Hashpower: 200, BerryConsumption: 18},
	{ID: 91, Rarity: SuperRare, Hashpower: 230, BerryConsumption: 21},
	// Mega rare
	{ID: 99, Rarity: MegaRare, Hashpower: 400, BerryConsumption: 30},
}

var (
	byID     map[uint16]Template
	byRarity map[Rarity][]Template
)

func init() {
	byID = make(map[uint16]Template, len(templates))
	byRarity = make(map[Rarity][]Template)
	for _, tpl := range templates {
		byID[tpl.ID] = tpl
		byRarity[tpl.Rarity] = append(byRarity[tpl.Rarity], tpl)
	}
}

// ByID looks up a card template by id.
func ByID(id uint16) (Template, bool) {
	tpl, ok := byID[id]
	return tpl, ok
}

// ByRarity returns all templates of the given rarity, in id order.
func ByRarity(r Rarity) []Template {
	return byRarity[r]
}

// FarmTier describes one farm upgrade level.
type FarmTier struct {
	TotalCards    uint8  // max concurrently staked cards
	BerryCapacity uint64 // max summed berry consumption of staked cards
	Cost          uint64 // upgrade cost in microtokens
}

// farmTiers is indexed by farm type. Tier 0 is the reset tier, tier 1
// is what the initial purchase grants. Capacities are strictly
// increasing by tier.
var farmTiers = []FarmTier{
	{TotalCards: 2, BerryCapacity: 3, Cost: 0},
	{TotalCards: 4, BerryCapacity: 10, Cost: 0},
	{TotalCards: 6, BerryCapacity: 22, Cost: 200_000_000},
	{TotalCards: 9, BerryCapacity: 40, Cost: 500_000_000},
	{TotalCards: 12, BerryCapacity: 70, Cost: 1_200_000_000},
	{TotalCards: 16, BerryCapacity: 115, Cost: 2_800_000_000},
	{TotalCards: 20, BerryCapacity: 180, Cost: 6_000_000_000},
	{TotalCards: 25, BerryCapacity: 280, Cost: 13_000_000_000},
	{TotalCards: 32, BerryCapacity: 450, Cost: 28_000_000_000},
	{TotalCards: 48, BerryCapacity: 800, Cost: 60_000_000_000},
}

// Farm returns the tier config for a farm type.
func Farm(tier uint8) (FarmTier, bool) {
	if int(tier) >= len(farmTiers) {
		return FarmTier{}, false
	}
	return farmTiers[tier], true
}

// MaxFarmTier is the highest purchasable farm type.
func MaxFarmTier() uint8 {
	return uint8(len(farmTiers) - 1)
}
