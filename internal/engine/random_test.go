// ==================================
// File: internal/engine/random_test.go
// ==================================
package engine

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashfarm/hashfarm/internal/catalog"
	"github.com/hashfarm/hashfarm/internal/ledger"
	"github.com/hashfarm/hashfarm/internal/state"
)

func TestDrawRarityBoundaries(t *testing.T) {
	cases := []struct {
		v    uint32
		want catalog.Rarity
	}{
		{0x00000000, catalog.Common},
		{0x7FFFFFFF, catalog.Common},   // scaled 499
		{0x80000000, catalog.Uncommon}, // scaled 500
		{0xBFFFFFFF, catalog.Uncommon}, // scaled 749
		{0xC0000000, catalog.Rare},     // scaled 750
		{0xE6666667, catalog.DoubleRare}, // scaled 900
		{0xF5C28F5D, catalog.VeryRare},   // scaled 960
		{0xFD70A3D8, catalog.SuperRare},  // scaled 990
		{0xFFFFFFFF, catalog.MegaRare}, // scaled 999
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, drawRarity(tc.v), "v=%#x", tc.v)
	}
}

func TestOpenBoosterCommitAndSettle(t *testing.T) {
	env := newTestEnv(t)
	referrer := pk()
	w := pk()
	p := env.purchase(t, w, &referrer, 1)
	require.NoError(t, env.tokens.MintTo(w, 1_000_000_000))

	require.NoError(t, env.eng.OpenBoosterCommit(env.gs, p, 2))
	assert.True(t, p.IsPending())
	assert.Equal(t, uint64(2), p.CommitSlot)

	// Pack cost split: 80% burned, fee fully to the referrer at the
	// default 100% referral rate.
	assert.Equal(t, uint64(1_000_000_000-100_000_000), env.tokens.Balance(w))
	assert.Equal(t, uint64(80_000_000), env.gs.BurnedTokens)
	assert.Equal(t, uint64(20_000_000), env.tokens.Balance(referrer))
	assert.Equal(t, uint64(20_000_000), p.TotalEarningsForReferrer)

	// A second commit while one is pending is rejected.
	assert.ErrorIs(t, env.eng.OpenBoosterCommit(env.gs, p, 3), ErrActionAlreadyPending)

	// Reveal slot is commit+2; settling earlier fails.
	_, err := env.eng.SettleOpenBooster(env.gs, p, 3)
	assert.ErrorIs(t, err, ErrRandomnessNotResolved)

	// Reveal slot reached but its hash already evicted.
	_, err = env.eng.SettleOpenBooster(env.gs, p, 4)
	assert.ErrorIs(t, err, ErrEntropyNotFound)
	assert.True(t, p.IsPending())

	// A zero hash maps every draw to the first common card.
	env.win.Record(4, solana.Hash{})
	drawn, err := env.eng.SettleOpenBooster(env.gs, p, 4)
	require.NoError(t, err)
	assert.Equal(t, [5]uint16{1, 1, 1, 1, 1}, drawn)
	assert.Equal(t, uint8(8), p.CardCount)
	assert.False(t, p.IsPending())
	assert.Equal(t, uint64(1), p.TotalBoosterPacksOpened)
	assert.Equal(t, uint64(1), env.gs.TotalBoosterPacksOpened)

	_, err = env.eng.SettleOpenBooster(env.gs, p, 5)
	assert.ErrorIs(t, err, ErrNoActionPending)
}

func TestOpenBoosterMegaRareDraw(t *testing.T) {
	env := newTestEnv(t)
	w := pk()
	p := env.purchase(t, w, nil, 1)
	require.NoError(t, env.tokens.MintTo(w, 1_000_000_000))

	require.NoError(t, env.eng.OpenBoosterCommit(env.gs, p, 2))

	// Max out the first draw's four bytes: scaled percent 999 is the
	// mega-rare bucket, and the single mega-rare template wins the pick.
	var hash solana.Hash
	hash[0], hash[1], hash[2], hash[3] = 0xFF, 0xFF, 0xFF, 0xFF
	env.win.Record(4, hash)

	drawn, err := env.eng.SettleOpenBooster(env.gs, p, 4)
	require.NoError(t, err)
	assert.Equal(t, uint16(99), drawn[0])
	assert.Equal(t, [4]uint16{1, 1, 1, 1}, [4]uint16{drawn[1], drawn[2], drawn[3], drawn[4]})
}

func TestOpenBoosterCommitPreconditions(t *testing.T) {
	env := newTestEnv(t)
	w := pk()
	p := env.purchase(t, w, nil, 1)

	// No token balance for the pack cost.
	assert.ErrorIs(t, env.eng.OpenBoosterCommit(env.gs, p, 2), ledger.ErrInsufficientFunds)

	// Full arena: five more cards would not fit.
	require.NoError(t, env.tokens.MintTo(w, 1_000_000_000))
	p.CardCount = state.MaxCardsPerPlayer - 4
	assert.ErrorIs(t, env.eng.OpenBoosterCommit(env.gs, p, 2), state.ErrInventoryFull)
}

func TestRecycleCardsUpgrade(t *testing.T) {
	env := newTestEnv(t)
	w := pk()
	p := env.purchase(t, w, nil, 1)

	require.NoError(t, env.eng.RecycleCardsCommit(env.gs, p, []uint8{0, 1}, 2))
	assert.Equal(t, uint64(1), env.gs.TotalCardRecyclingAttempts)

	// Zero entropy bytes are below the upgrade threshold: both commons
	// come back as the first uncommon template.
	env.win.Record(4, solana.Hash{})
	recycled, upgrades, err := env.eng.RecycleCardsSettle(env.gs, p, 4)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), recycled)
	assert.Equal(t, uint8(2), upgrades)

	assert.Equal(t, uint8(3), p.CardCount)
	assert.Equal(t, uint16(3), p.Cards[0].ID) // survivor compacted down
	assert.Equal(t, uint16(20), p.Cards[1].ID)
	assert.Equal(t, uint16(20), p.Cards[2].ID)
	assert.False(t, p.IsPending())
	assert.Equal(t, uint64(2), p.TotalCardsRecycled)
	assert.Equal(t, uint64(2), p.SuccessfulCardRecycling)
	assert.Equal(t, uint64(2), env.gs.TotalSuccessfulCardRecycling)
}

func TestRecycleCardsDestroy(t *testing.T) {
	env := newTestEnv(t)
	w := pk()
	p := env.purchase(t, w, nil, 1)

	require.NoError(t, env.eng.RecycleCardsCommit(env.gs, p, []uint8{0}, 2))

	// A max byte is far above the upgrade threshold: the card is gone.
	var hash solana.Hash
	for i := range hash {
		hash[i] = 0xFF
	}
	env.win.Record(4, hash)

	recycled, upgrades, err := env.eng.RecycleCardsSettle(env.gs, p, 4)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), recycled)
	assert.Equal(t, uint8(0), upgrades)
	assert.Equal(t, uint8(2), p.CardCount)
	assert.Equal(t, uint64(1), p.TotalCardsRecycled)
	assert.Zero(t, p.SuccessfulCardRecycling)
}

func TestRecycleCommitValidation(t *testing.T) {
	env := newTestEnv(t)
	w := pk()
	p := env.purchase(t, w, nil, 1)

	assert.ErrorIs(t, env.eng.RecycleCardsCommit(env.gs, p, nil, 2), ErrInvalidRecycleCount)
	assert.ErrorIs(t, env.eng.RecycleCardsCommit(env.gs, p, []uint8{0, 0}, 2), ErrDuplicateIndices)
	assert.ErrorIs(t, env.eng.RecycleCardsCommit(env.gs, p, []uint8{7}, 2), state.ErrInvalidCardIndex)

	require.NoError(t, env.eng.StakeCard(env.gs, p, 0, 2))
	assert.ErrorIs(t, env.eng.RecycleCardsCommit(env.gs, p, []uint8{0}, 3), state.ErrCardStaked)
}

func TestRecycleSettleWrongKind(t *testing.T) {
	env := newTestEnv(t)
	w := pk()
	p := env.purchase(t, w, nil, 1)
	require.NoError(t, env.tokens.MintTo(w, 1_000_000_000))

	require.NoError(t, env.eng.OpenBoosterCommit(env.gs, p, 2))
	env.win.Record(4, solana.Hash{})

	_, _, err := env.eng.RecycleCardsSettle(env.gs, p, 4)
	assert.ErrorIs(t, err, ErrWrongPendingAction)
}

func TestRecycleSettleAfterDiscardRepointsIndex(t *testing.T) {
	env := newTestEnv(t)
	w := pk()
	p := env.purchase(t, w, nil, 1)

	require.NoError(t, env.eng.StakeCard(env.gs, p, 2, 2))
	require.NoError(t, env.eng.RecycleCardsCommit(env.gs, p, []uint8{1}, 3))

	// Discarding slot 0 compacts the prefix: committed index 1 now
	// points at the staked card that slid down from slot 2.
	require.NoError(t, env.eng.DiscardCard(env.gs, p, 0, 4))
	require.True(t, p.IsCardStaked(1))

	env.win.Record(5, solana.Hash{})
	_, _, err := env.eng.RecycleCardsSettle(env.gs, p, 5)
	assert.ErrorIs(t, err, state.ErrCardStaked)
	assert.True(t, p.IsPending())
	assert.Equal(t, uint8(2), p.CardCount)

	// Cancellation is the way out; the cards stay put.
	require.NoError(t, env.eng.CancelPendingAction(env.gs, p, 3+state.CancelTimeoutSlots+1))
	assert.False(t, p.IsPending())
	assert.Equal(t, uint8(2), p.CardCount)
	assert.True(t, p.IsCardStaked(1))
}

func TestCancelPendingAction(t *testing.T) {
	env := newTestEnv(t)
	w := pk()
	p := env.purchase(t, w, nil, 1)

	assert.ErrorIs(t, env.eng.CancelPendingAction(env.gs, p, 5), ErrNoActionPending)

	require.NoError(t, env.eng.RecycleCardsCommit(env.gs, p, []uint8{0, 1}, 10))

	// The timeout is exclusive of the boundary slot.
	err := env.eng.CancelPendingAction(env.gs, p, 10+state.CancelTimeoutSlots)
	assert.ErrorIs(t, err, ErrCancelTimeoutNotExpired)

	require.NoError(t, env.eng.CancelPendingAction(env.gs, p, 10+state.CancelTimeoutSlots+1))
	assert.False(t, p.IsPending())

	// Cancellation leaves the targeted cards in place.
	assert.Equal(t, uint8(3), p.CardCount)
	assert.NoError(t, env.eng.StakeCard(env.gs, p, 0, 200))
}
