package fees

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashfarm/hashfarm/internal/ledger"
	"github.com/hashfarm/hashfarm/internal/state"
)

func testGS() *state.GlobalState {
	return state.NewGlobalState(
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(),
		0, 1_000_000, 0, 0, 0,
	)
}

// default rates: burn 80%, referral 100%, amount 1000.
func TestComputeReferralTakesWholeFee(t *testing.T) {
	gs := testGS()
	ref := solana.NewWallet().PublicKey()
	p := &state.Player{Owner: solana.NewWallet().PublicKey(), Referrer: &ref}

	split := Compute(gs, p, 1000, true)
	assert.Equal(t, uint64(800), split.Burn)
	assert.Equal(t, uint64(200), split.Commission)
	assert.Equal(t, uint64(0), split.Protocol)
}

func TestComputeIneligibleGoesToTreasury(t *testing.T) {
	gs := testGS()
	ref := solana.NewWallet().PublicKey()
	p := &state.Player{Owner: solana.NewWallet().PublicKey(), Referrer: &ref}

	split := Compute(gs, p, 1000, false)
	assert.Equal(t, uint64(800), split.Burn)
	assert.Zero(t, split.Commission)
	assert.Equal(t, uint64(200), split.Protocol)
}

func TestComputeNoReferrer(t *testing.T) {
	gs := testGS()
	gs.ReferralFee = 50
	p := &state.Player{Owner: solana.NewWallet().PublicKey()}

	split := Compute(gs, p, 1000, true)
	assert.Equal(t, uint64(800), split.Burn)
	assert.Zero(t, split.Commission)
	assert.Equal(t, uint64(200), split.Protocol)
}

func TestComputePartialReferralFee(t *testing.T) {
	gs := testGS()
	gs.BurnRate = 50
	gs.ReferralFee = 25
	ref := solana.NewWallet().PublicKey()
	p := &state.Player{Owner: solana.NewWallet().PublicKey(), Referrer: &ref}

	split := Compute(gs, p, 1000, true)
	assert.Equal(t, uint64(500), split.Burn)
	assert.Equal(t, uint64(125), split.Commission)
	assert.Equal(t, uint64(375), split.Protocol)
}

func TestDistributeMovesFunds(t *testing.T) {
	gs := testGS()
	ref := solana.NewWallet().PublicKey()
	p := &state.Player{Owner: solana.NewWallet().PublicKey(), Referrer: &ref}

	ld := ledger.NewMemory()
	require.NoError(t, ld.MintTo(p.Owner, 1000))

	split, err := Distribute(gs, p, 1000, true, ld)
	require.NoError(t, err)

	assert.Equal(t, uint64(800), ld.Burned())
	assert.Equal(t, uint64(800), gs.BurnedTokens)
	assert.Equal(t, uint64(200), ld.Balance(ref))
	assert.Zero(t, ld.Balance(gs.FeesWallet))
	assert.Zero(t, ld.Balance(p.Owner))
	assert.Equal(t, uint64(200), p.TotalEarningsForReferrer)
	assert.Equal(t, split.Burn+split.Commission+split.Protocol, uint64(1000))
}

func TestDistributeZeroSubAmountsSkipped(t *testing.T) {
	gs := testGS()
	gs.BurnRate = 0
	gs.ReferralFee = 0
	ref := solana.NewWallet().PublicKey()
	p := &state.Player{Owner: solana.NewWallet().PublicKey(), Referrer: &ref}

	ld := ledger.NewMemory()
	require.NoError(t, ld.MintTo(p.Owner, 10))

	split, err := Distribute(gs, p, 10, true, ld)
	require.NoError(t, err)
	assert.Zero(t, split.Burn)
	assert.Zero(t, split.Commission)
	assert.Equal(t, uint64(10), split.Protocol)
	assert.Equal(t, uint64(10), ld.Balance(gs.FeesWallet))
	assert.Zero(t, gs.BurnedTokens)
}
