// ==================================
// File: internal/state/state.go
// ==================================
package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hashfarm/hashfarm/internal/catalog"
	"github.com/hashfarm/hashfarm/internal/safemath"
)

const (
	// MaxCardsPerPlayer bounds the inventory arena.
	MaxCardsPerPlayer = 128

	// AccScale is the fixed-point scale of the reward accumulators.
	AccScale = 1_000_000_000_000 // 1e12

	// MinRandomnessDelaySlots is how far past the commit slot the
	// reveal slot sits.
	MinRandomnessDelaySlots = 2

	// CancelTimeoutSlots gates cancellation of a pending random
	// action. Strictly longer than the reveal delay so a commit can
	// never be abandoned before its entropy exists.
	CancelTimeoutSlots = 100
)

// Card is a player's copy of a catalog template.
type Card struct {
	ID               uint16
	Rarity           catalog.Rarity
	Hashpower        uint16
	BerryConsumption uint8
}

// Farm is the player's upgradeable tier.
type Farm struct {
	FarmType      uint8
	TotalCards    uint8
	BerryCapacity uint64
}

// PendingKind tags the pending random action variant.
type PendingKind uint8

const (
	PendingNone PendingKind = iota
	PendingBooster
	PendingRecycle
)

// PendingAction is the per-player commit/reveal slot. At most one
// action is pending at a time; Indices is only meaningful for
// PendingRecycle.
type PendingAction struct {
	Kind    PendingKind
	Indices []uint8 // recycle targets, commit order
}

// GlobalState is the per-token-instance singleton. Every operation
// receives it by exclusive pointer; there is no ambient global.
type GlobalState struct {
	Authority    solana.PublicKey
	TokenMint    solana.PublicKey
	FeesWallet   solana.PublicKey
	RewardsVault solana.PublicKey

	// Supply accounting. Invariant:
	// CumulativeRewards - BurnedTokens <= TotalSupply.
	TotalSupply       uint64
	BurnedTokens      uint64
	CumulativeRewards uint64

	// Hashpower accumulator.
	StartSlot             uint64
	RewardRate            uint64
	AccTokensPerHashpower safemath.Uint128
	LastRewardSlot        uint64

	BurnRate             uint8 // percent, 0-100
	ReferralFee          uint8 // percent of the fee portion, 0-100
	ProductionEnabled    bool
	DustThresholdDivisor uint64

	InitialFarmPurchaseFeeLamports uint64
	BoosterPackCostMicrotokens     uint64
	GambleFeeLamports              uint64

	// Sums over all players' staked contributions.
	TotalBerries   uint64
	TotalHashpower uint64

	// Token-staking pool: structurally the hashpower accumulator with
	// staked tokens as the basis.
	TotalStakedTokens       uint64
	StakingLockupSlots      uint64
	AccSolRewardsPerToken   safemath.Uint128
	AccTokenRewardsPerToken safemath.Uint128
	LastStakingRewardSlot   uint64
	TokenRewardRate         uint64
	TotalSolDeposited       uint64

	// Informational counters, saturating.
	TotalBoosterPacksOpened      uint64
	TotalCardRecyclingAttempts   uint64
	TotalSuccessfulCardRecycling uint64
}

// Player is one user's record within a game instance.
type Player struct {
	Owner solana.PublicKey

	Farm      Farm
	Cards     [MaxCardsPerPlayer]Card
	CardCount uint8

	stakedMask [2]uint64 // one bit per slot index

	Berries        uint64
	TotalHashpower uint64

	Referrer *solana.PublicKey // set once at creation, immutable

	LastAccTokensPerHashpower safemath.Uint128
	LastClaimSlot             uint64
	LastUpgradeSlot           uint64

	Pending    PendingAction
	CommitSlot uint64

	// Token staking checkpoint.
	StakedTokens                uint64
	LastStakeSlot               uint64
	LastAccSolRewardsPerToken   safemath.Uint128
	LastAccTokenRewardsPerToken safemath.Uint128
	ClaimedTokenRewards         uint64

	// Lifetime counters, saturating.
	TotalRewards              uint64
	TotalEarningsForReferrer  uint64
	TotalBoosterPacksOpened   uint64
	TotalCardsRecycled        uint64
	SuccessfulCardRecycling   uint64
	TotalSolSpent             uint64
	TotalTokensSpent          uint64
}

// NewGlobalState builds the singleton with the launch defaults.
func NewGlobalState(authority, mint, feesWallet, vault solana.PublicKey, startSlot, totalSupply, rewardRate, stakingLockupSlots, tokenRewardRate uint64) *GlobalState {
	return &GlobalState{
		Authority:    authority,
		TokenMint:    mint,
		FeesWallet:   feesWallet,
		RewardsVault: vault,

		TotalSupply: totalSupply,

		StartSlot:      startSlot,
		RewardRate:     rewardRate,
		LastRewardSlot: startSlot,

		BurnRate:             80,
		ReferralFee:          100,
		ProductionEnabled:    true,
		DustThresholdDivisor: 1000,

		InitialFarmPurchaseFeeLamports: 300_000_000, // 0.3 SOL
		BoosterPackCostMicrotokens:     100_000_000, // 10 tokens
		GambleFeeLamports:              100_000_000, // 0.1 SOL

		StakingLockupSlots:    stakingLockupSlots,
		LastStakingRewardSlot: startSlot,
		TokenRewardRate:       tokenRewardRate,
	}
}

// IsPending reports whether any random action is pending.
func (p *Player) IsPending() bool {
	return p.Pending.Kind != PendingNone
}

// ClearPending resets the commit/reveal slot.
func (p *Player) ClearPending() {
	p.Pending = PendingAction{}
	p.CommitSlot = 0
}
