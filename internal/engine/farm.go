// ==================================
// File: internal/engine/farm.go
// ==================================
package engine

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/hashfarm/hashfarm/internal/catalog"
	"github.com/hashfarm/hashfarm/internal/events"
	"github.com/hashfarm/hashfarm/internal/fees"
	"github.com/hashfarm/hashfarm/internal/ledger"
	"github.com/hashfarm/hashfarm/internal/rewards"
	"github.com/hashfarm/hashfarm/internal/safemath"
	"github.com/hashfarm/hashfarm/internal/state"
)

// PurchaseInitialFarm creates a player record: a tier-1 farm, three
// unstaked starter cards, and an optional referrer fixed for the
// record's lifetime. The lamport fee goes to the treasury. existing is
// the caller's record for this wallet, nil if none; a second purchase
// for the same wallet is rejected.
func (e *Engine) PurchaseInitialFarm(gs *state.GlobalState, existing *state.Player, wallet solana.PublicKey, referrer *solana.PublicKey, now uint64) (*state.Player, error) {
	if !gs.ProductionEnabled {
		return nil, ErrProductionDisabled
	}
	if existing != nil {
		return nil, ErrFarmAlreadyPurchased
	}
	if len(e.allowList) > 0 {
		if _, ok := e.allowList[wallet]; !ok {
			return nil, ErrUnauthorized
		}
	}
	if referrer != nil && *referrer == wallet {
		return nil, ErrSelfReferral
	}

	tier, ok := catalog.Farm(1)
	if !ok {
		return nil, ErrInvalidFarmTier
	}

	rewards.Advance(gs, now)

	if err := e.sol.Transfer(wallet, gs.FeesWallet, gs.InitialFarmPurchaseFeeLamports); err != nil {
		return nil, fmt.Errorf("initial farm fee: %w", err)
	}

	p := &state.Player{
		Owner: wallet,
		Farm: state.Farm{
			FarmType:      1,
			TotalCards:    tier.TotalCards,
			BerryCapacity: tier.BerryCapacity,
		},
		Referrer:                  referrer,
		LastClaimSlot:             now,
		LastUpgradeSlot:           now,
		LastAccTokensPerHashpower: gs.AccTokensPerHashpower,
		TotalSolSpent:             gs.InitialFarmPurchaseFeeLamports,
	}

	for _, id := range catalog.StarterCardIDs {
		tpl, ok := catalog.ByID(id)
		if !ok {
			continue
		}
		if err := p.AddCard(state.Card{
			ID:               tpl.ID,
			Rarity:           tpl.Rarity,
			Hashpower:        tpl.Hashpower,
			BerryConsumption: tpl.BerryConsumption,
		}); err != nil {
			return nil, err
		}
	}

	e.logger.Info("Initial farm purchased",
		zap.String("player", wallet.String()),
		zap.Uint64("slot", now),
		zap.Uint8("starter_cards", p.CardCount))

	ev := events.FarmPurchasedEvent{
		BaseEvent:    baseEvent(events.FarmPurchased, wallet, now),
		Referrer:     referrer,
		FarmType:     p.Farm.FarmType,
		InitialCards: p.CardCount,
	}
	e.emit(ev)
	return p, nil
}

// UpgradeFarm moves the player's farm up exactly one tier, paying the
// tier's token cost through the fee distributor. Farm upgrades are not
// referral-eligible.
func (e *Engine) UpgradeFarm(gs *state.GlobalState, p *state.Player, target uint8, now uint64) error {
	if !gs.ProductionEnabled {
		return ErrProductionDisabled
	}
	if target != p.Farm.FarmType+1 {
		return ErrInvalidFarmTier
	}
	tier, ok := catalog.Farm(target)
	if !ok {
		return ErrInvalidFarmTier
	}
	if e.tokens.Balance(p.Owner) < tier.Cost {
		return ledger.ErrInsufficientFunds
	}

	if _, err := rewards.Settle(gs, p, now, e.tokens); err != nil {
		return err
	}

	if _, err := fees.Distribute(gs, p, tier.Cost, false, e.tokens); err != nil {
		return err
	}

	p.Farm = state.Farm{
		FarmType:      target,
		TotalCards:    tier.TotalCards,
		BerryCapacity: tier.BerryCapacity,
	}
	p.LastUpgradeSlot = now
	p.TotalTokensSpent = safemath.SaturatingAdd(p.TotalTokensSpent, tier.Cost)

	e.emit(events.FarmUpgradedEvent{
		BaseEvent:   baseEvent(events.FarmUpgraded, p.Owner, now),
		NewFarmType: target,
	})
	return nil
}

// ClaimRewards settles the player's pending mining rewards. Zero is a
// valid outcome.
func (e *Engine) ClaimRewards(gs *state.GlobalState, p *state.Player, now uint64) (uint64, error) {
	amount, err := rewards.Settle(gs, p, now, e.tokens)
	if err != nil {
		return 0, err
	}
	if amount > 0 {
		e.emit(events.RewardsClaimedEvent{
			BaseEvent: baseEvent(events.RewardsClaimed, p.Owner, now),
			Amount:    amount,
		})
	}
	return amount, nil
}
