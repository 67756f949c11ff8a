// ==================================
// File: internal/engine/admin.go
// ==================================
package engine

import (
	"go.uber.org/zap"

	"github.com/gagliardetto/solana-go"

	"github.com/hashfarm/hashfarm/internal/catalog"
	"github.com/hashfarm/hashfarm/internal/rewards"
	"github.com/hashfarm/hashfarm/internal/safemath"
	"github.com/hashfarm/hashfarm/internal/state"
)

// Parameter indexes accepted by UpdateParameter.
const (
	ParamRewardRate = iota
	ParamTokenRewardRate
	ParamReferralFee
	ParamBurnRate
	ParamDustThresholdDivisor
	ParamInitialFarmFeeLamports
	ParamBoosterPackCost
	ParamGambleFeeLamports
	ParamStakingLockupSlots
)

func (e *Engine) requireAuthority(gs *state.GlobalState, caller solana.PublicKey) error {
	if !caller.Equals(gs.Authority) {
		return ErrUnauthorized
	}
	return nil
}

// ToggleProduction flips the global production switch. Settlement and
// claim paths stay live while disabled; only new spending stops.
func (e *Engine) ToggleProduction(gs *state.GlobalState, caller solana.PublicKey, enable bool, now uint64) error {
	if err := e.requireAuthority(gs, caller); err != nil {
		return err
	}
	rewards.Advance(gs, now)
	gs.ProductionEnabled = enable
	e.logger.Info("Production toggled", zap.Bool("enabled", enable), zap.Uint64("slot", now))
	return nil
}

// UpdateParameter sets one tunable by index. Both pools are advanced
// first so the old rates apply up to this slot.
func (e *Engine) UpdateParameter(gs *state.GlobalState, caller solana.PublicKey, index uint8, value uint64, now uint64) error {
	if err := e.requireAuthority(gs, caller); err != nil {
		return err
	}

	rewards.Advance(gs, now)
	rewards.AdvanceStaking(gs, now)

	switch index {
	case ParamRewardRate:
		gs.RewardRate = value
	case ParamTokenRewardRate:
		gs.TokenRewardRate = value
	case ParamReferralFee:
		if value > 100 {
			return ErrInvalidParameter
		}
		gs.ReferralFee = uint8(value)
	case ParamBurnRate:
		if value > 100 {
			return ErrInvalidParameter
		}
		gs.BurnRate = uint8(value)
	case ParamDustThresholdDivisor:
		if value == 0 {
			return ErrInvalidParameter
		}
		gs.DustThresholdDivisor = value
	case ParamInitialFarmFeeLamports:
		gs.InitialFarmPurchaseFeeLamports = value
	case ParamBoosterPackCost:
		gs.BoosterPackCostMicrotokens = value
	case ParamGambleFeeLamports:
		gs.GambleFeeLamports = value
	case ParamStakingLockupSlots:
		gs.StakingLockupSlots = value
	default:
		return ErrInvalidParameter
	}

	e.logger.Info("Parameter updated",
		zap.Uint8("index", index),
		zap.Uint64("value", value),
		zap.Uint64("slot", now))
	return nil
}

// UpdatePool forces both accumulators forward to now. Anyone may keep
// the pools current, but exposing it as an admin call matches how the
// other admin surfaces are gated.
func (e *Engine) UpdatePool(gs *state.GlobalState, caller solana.PublicKey, now uint64) error {
	if err := e.requireAuthority(gs, caller); err != nil {
		return err
	}
	rewards.Advance(gs, now)
	rewards.AdvanceStaking(gs, now)
	return nil
}

// ResetPlayer wipes a player back to an empty tier-0 farm. Their
// staked contributions are backed out of the global totals and any
// pending random action is abandoned. Staked tokens and lifetime
// counters survive the reset.
func (e *Engine) ResetPlayer(gs *state.GlobalState, caller solana.PublicKey, p *state.Player, now uint64) error {
	if err := e.requireAuthority(gs, caller); err != nil {
		return err
	}

	rewards.Advance(gs, now)

	gs.TotalBerries = safemath.SaturatingSub(gs.TotalBerries, p.Berries)
	gs.TotalHashpower = safemath.SaturatingSub(gs.TotalHashpower, p.TotalHashpower)

	tier, _ := catalog.Farm(0)
	p.ResetInventory(state.Farm{
		FarmType:      0,
		TotalCards:    tier.TotalCards,
		BerryCapacity: tier.BerryCapacity,
	})
	p.LastAccTokensPerHashpower = gs.AccTokensPerHashpower
	p.LastClaimSlot = now
	p.ClearPending()

	e.logger.Warn("Player reset", zap.String("player", p.Owner.String()), zap.Uint64("slot", now))
	return nil
}
