// ==================================
// File: internal/engine/staking.go
// ==================================
package engine

import (
	"github.com/hashfarm/hashfarm/internal/events"
	"github.com/hashfarm/hashfarm/internal/ledger"
	"github.com/hashfarm/hashfarm/internal/rewards"
	"github.com/hashfarm/hashfarm/internal/state"
)

// StakeTokens moves tokens from the player into the staking pool.
// Pending staking rewards are settled at the pre-stake balance first,
// and the lockup clock restarts from this slot.
func (e *Engine) StakeTokens(gs *state.GlobalState, p *state.Player, amount, now uint64) error {
	if !gs.ProductionEnabled {
		return ErrProductionDisabled
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if e.tokens.Balance(p.Owner) < amount {
		return ledger.ErrInsufficientFunds
	}

	if _, err := rewards.SettleStaking(gs, p, now, e.tokens); err != nil {
		return err
	}

	if err := e.tokens.Transfer(p.Owner, gs.RewardsVault, amount); err != nil {
		return err
	}

	p.StakedTokens = mustAdd(p.StakedTokens, amount, "player staked tokens")
	gs.TotalStakedTokens = mustAdd(gs.TotalStakedTokens, amount, "global staked tokens")
	p.LastStakeSlot = now

	e.emit(events.TokensStakedEvent{
		BaseEvent: baseEvent(events.TokensStaked, p.Owner, now),
		Amount:    amount,
	})
	return nil
}

// UnstakeTokens withdraws staked tokens after the lockup has expired.
// The lockup runs from the most recent stake, not the first.
func (e *Engine) UnstakeTokens(gs *state.GlobalState, p *state.Player, amount, now uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if amount > p.StakedTokens {
		return ledger.ErrInsufficientFunds
	}
	if now < p.LastStakeSlot+gs.StakingLockupSlots {
		return ErrStakingLockupActive
	}

	if _, err := rewards.SettleStaking(gs, p, now, e.tokens); err != nil {
		return err
	}

	if err := e.tokens.Transfer(gs.RewardsVault, p.Owner, amount); err != nil {
		return err
	}

	p.StakedTokens = mustSub(p.StakedTokens, amount, "player staked tokens")
	gs.TotalStakedTokens = mustSub(gs.TotalStakedTokens, amount, "global staked tokens")

	e.emit(events.TokensUnstakedEvent{
		BaseEvent: baseEvent(events.TokensUnstaked, p.Owner, now),
		Amount:    amount,
	})
	return nil
}

// ClaimStakingRewards settles the player's pending staking rewards
// without touching the staked principal.
func (e *Engine) ClaimStakingRewards(gs *state.GlobalState, p *state.Player, now uint64) (uint64, error) {
	paid, err := rewards.SettleStaking(gs, p, now, e.tokens)
	if err != nil {
		return 0, err
	}
	if paid > 0 {
		e.emit(events.RewardsClaimedEvent{
			BaseEvent: baseEvent(events.RewardsClaimed, p.Owner, now),
			Amount:    paid,
		})
	}
	return paid, nil
}
