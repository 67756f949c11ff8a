package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByIDAndRarityAgree(t *testing.T) {
	for r := Common; r <= MegaRare; r++ {
		group := ByRarity(r)
		require.NotEmpty(t, group, "rarity %s has no templates", r)
		for _, tpl := range group {
			got, ok := ByID(tpl.ID)
			require.True(t, ok)
			assert.Equal(t, tpl, got)
			assert.Equal(t, r, got.Rarity)
		}
	}
}

func TestStarterCardsExistAndAreCommon(t *testing.T) {
	for _, id := range StarterCardIDs {
		tpl, ok := ByID(id)
		require.True(t, ok, "starter card %d missing", id)
		assert.Equal(t, Common, tpl.Rarity)
	}
}

func TestNextRarity(t *testing.T) {
	next, ok := NextRarity(Common)
	require.True(t, ok)
	assert.Equal(t, Uncommon, next)

	next, ok = NextRarity(SuperRare)
	require.True(t, ok)
	assert.Equal(t, MegaRare, next)

	_, ok = NextRarity(MegaRare)
	assert.False(t, ok)
}

func TestFarmTiersStrictlyIncrease(t *testing.T) {
	prev, ok := Farm(0)
	require.True(t, ok)
	for tier := uint8(1); tier <= MaxFarmTier(); tier++ {
		cur, ok := Farm(tier)
		require.True(t, ok)
		assert.Greater(t, cur.TotalCards, prev.TotalCards, "tier %d", tier)
		assert.Greater(t, cur.BerryCapacity, prev.BerryCapacity, "tier %d", tier)
		prev = cur
	}
	_, ok = Farm(MaxFarmTier() + 1)
	assert.False(t, ok)
}
