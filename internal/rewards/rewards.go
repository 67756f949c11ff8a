// ==================================
// File: internal/rewards/rewards.go
// ==================================

// Package rewards maintains the pull-based emission accumulators: a
// global tokens-per-hashpower running total for the mining pool and a
// structurally identical tokens-per-staked-token total for the token
// staking pool. Both advance lazily; whoever touches the pool first
// pays the bookkeeping.
package rewards

import (
	"errors"

	"github.com/hashfarm/hashfarm/internal/ledger"
	"github.com/hashfarm/hashfarm/internal/safemath"
	"github.com/hashfarm/hashfarm/internal/state"
)

// ErrCooldownNotExpired rejects a second settlement within the same
// slot when there is anything to pay out.
var ErrCooldownNotExpired = errors.New("claim cooldown not expired")

// remainingSupply is the portion of the total supply not yet emitted,
// after crediting burns back to the pool.
func remainingSupply(gs *state.GlobalState) uint64 {
	mintedMinusBurn := safemath.SaturatingSub(gs.CumulativeRewards, gs.BurnedTokens)
	return safemath.SaturatingSub(gs.TotalSupply, mintedMinusBurn)
}

// Advance moves the hashpower accumulator to now. Idempotent: calling
// it again with the same slot changes nothing. Before the start slot
// it only clamps the checkpoint. Depleting the pool below the dust
// threshold zeroes the reward rate permanently.
func Advance(gs *state.GlobalState, now uint64) {
	if now < gs.StartSlot {
		gs.LastRewardSlot = gs.StartSlot
		return
	}
	if now <= gs.LastRewardSlot || gs.TotalHashpower == 0 {
		gs.LastRewardSlot = now
		return
	}

	remaining := remainingSupply(gs)
	var dustThreshold uint64
	if gs.DustThresholdDivisor > 0 {
		dustThreshold = gs.TotalSupply / gs.DustThresholdDivisor
	}
	if remaining <= dustThreshold || gs.RewardRate == 0 {
		// One-way latch: once the pool is dust, emission never resumes.
		gs.RewardRate = 0
		gs.LastRewardSlot = now
		return
	}

	reward := safemath.Mul128(now-gs.LastRewardSlot, gs.RewardRate)
	if reward.Cmp(safemath.U128From64(remaining)) > 0 {
		reward = safemath.U128From64(remaining)
	}

	gs.AccTokensPerHashpower = gs.AccTokensPerHashpower.Add(
		reward.Mul64(state.AccScale).Div64(gs.TotalHashpower))
	gs.CumulativeRewards = safemath.SaturatingAdd(gs.CumulativeRewards, reward.Truncate64())
	gs.LastRewardSlot = now
}

// AdvanceStaking moves the token-staking accumulator to now. Same
// algorithm as Advance with staked tokens as the basis.
func AdvanceStaking(gs *state.GlobalState, now uint64) {
	if now < gs.StartSlot {
		gs.LastStakingRewardSlot = gs.StartSlot
		return
	}
	if now <= gs.LastStakingRewardSlot || gs.TotalStakedTokens == 0 {
		gs.LastStakingRewardSlot = now
		return
	}

	remaining := remainingSupply(gs)
	var dustThreshold uint64
	if gs.DustThresholdDivisor > 0 {
		dustThreshold = gs.TotalSupply / gs.DustThresholdDivisor
	}
	if remaining <= dustThreshold || gs.TokenRewardRate == 0 {
		gs.TokenRewardRate = 0
		gs.LastStakingRewardSlot = now
		return
	}

	reward := safemath.Mul128(now-gs.LastStakingRewardSlot, gs.TokenRewardRate)
	if reward.Cmp(safemath.U128From64(remaining)) > 0 {
		reward = safemath.U128From64(remaining)
	}

	gs.AccTokenRewardsPerToken = gs.AccTokenRewardsPerToken.Add(
		reward.Mul64(state.AccScale).Div64(gs.TotalStakedTokens))
	gs.CumulativeRewards = safemath.SaturatingAdd(gs.CumulativeRewards, reward.Truncate64())
	gs.LastStakingRewardSlot = now
}

// PendingMining returns the player's unsettled mining rewards at the
// accumulator's current position, clamped to the remaining supply.
func PendingMining(gs *state.GlobalState, p *state.Player) uint64 {
	diff := gs.AccTokensPerHashpower.Sub(p.LastAccTokensPerHashpower)
	pending := diff.Mul64(p.TotalHashpower).Div64(state.AccScale).Truncate64()
	if remaining := remainingSupply(gs); pending > remaining {
		pending = remaining
	}
	return pending
}

// Settle advances the pool and pays the player's pending mining
// rewards from the rewards vault. A zero pending amount settles
// silently, only moving the checkpoint. Before the start slot the
// checkpoint moves and nothing else happens. Returns the amount
// transferred.
func Settle(gs *state.GlobalState, p *state.Player, now uint64, ld ledger.Ledger) (uint64, error) {
	Advance(gs, now)

	if now < gs.StartSlot {
		p.LastClaimSlot = now
		return 0, nil
	}
	if now <= p.LastClaimSlot {
		return 0, ErrCooldownNotExpired
	}

	pending := PendingMining(gs, p)
	if pending == 0 {
		p.LastClaimSlot = now
		p.LastAccTokensPerHashpower = gs.AccTokensPerHashpower
		return 0, nil
	}

	// Transfer before touching the checkpoint so a ledger failure
	// leaves the player record untouched.
	if err := ld.Transfer(gs.RewardsVault, p.Owner, pending); err != nil {
		return 0, err
	}

	p.LastClaimSlot = now
	p.LastAccTokensPerHashpower = gs.AccTokensPerHashpower
	p.TotalRewards = safemath.SaturatingAdd(p.TotalRewards, pending)
	return pending, nil
}

// SettleStaking advances the staking pool and pays the player's
// pending token-staking rewards. Zero is a valid outcome.
func SettleStaking(gs *state.GlobalState, p *state.Player, now uint64, ld ledger.Ledger) (uint64, error) {
	AdvanceStaking(gs, now)

	if now < gs.StartSlot {
		return 0, nil
	}

	diff := gs.AccTokenRewardsPerToken.Sub(p.LastAccTokenRewardsPerToken)
	pending := diff.Mul64(p.StakedTokens).Div64(state.AccScale).Truncate64()
	if remaining := remainingSupply(gs); pending > remaining {
		pending = remaining
	}

	if pending == 0 {
		p.LastAccTokenRewardsPerToken = gs.AccTokenRewardsPerToken
		return 0, nil
	}

	if err := ld.Transfer(gs.RewardsVault, p.Owner, pending); err != nil {
		return 0, err
	}

	p.LastAccTokenRewardsPerToken = gs.AccTokenRewardsPerToken
	p.ClaimedTokenRewards = safemath.SaturatingAdd(p.ClaimedTokenRewards, pending)
	return pending, nil
}
