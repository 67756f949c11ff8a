// ==================================
// File: internal/engine/random.go
// ==================================
package engine

import (
	"encoding/binary"
	"errors"

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

const boosterDraws = 5

// recycleUpgradeThreshold: a per-card entropy byte below this value
// upgrades the card. 51/256 is just under 20%.
const recycleUpgradeThreshold = 51

// rarityThresholds partitions the 0-999 range into the seven tiers:
// 50%, 25%, 15%, 6%, 3%, 0.9%, 0.1%.
var rarityThresholds = [7]uint32{500, 750, 900, 960, 990, 999, 1000}

// drawRarity maps a 32-bit value onto a rarity bucket. Scaling the
// full u32 range down to 0-999 first keeps the partition exact; a
// plain modulo would skew the tail buckets.
func drawRarity(v uint32) catalog.Rarity {
	percent := uint32(uint64(v) * 1000 >> 32)
	for tier, limit := range rarityThresholds {
		if percent < limit {
			return catalog.Rarity(tier)
		}
	}
	return catalog.MegaRare
}

// pickTemplate chooses uniformly among candidates using the same
// bias-free scaling.
func pickTemplate(v uint32, candidates []catalog.Template) catalog.Template {
	idx := uint64(v) * uint64(len(candidates)) >> 32
	return candidates[idx]
}

// settleBeforeReveal re-settles mining rewards ahead of a randomness
// settlement. A cooldown only means rewards were already settled at
// this slot, so it is not an error here.
func (e *Engine) settleBeforeReveal(gs *state.GlobalState, p *state.Player, now uint64) error {
	_, err := rewards.Settle(gs, p, now, e.tokens)
	if errors.Is(err, rewards.ErrCooldownNotExpired) {
		return nil
	}
	return err
}

// revealHash resolves the entropy for a commit. The reveal slot is
// fixed at commit time; once it falls out of the history window the
// randomness is unrecoverable and only cancellation remains.
func (e *Engine) revealHash(p *state.Player, now uint64) (solana.Hash, error) {
	revealSlot := p.CommitSlot + state.MinRandomnessDelaySlots
	if now < revealSlot {
		return solana.Hash{}, ErrRandomnessNotResolved
	}
	hash, ok := e.entropy.SlotHash(revealSlot)
	if !ok {
		return solana.Hash{}, ErrEntropyNotFound
	}
	return hash, nil
}

// OpenBoosterCommit pays for a booster pack and registers the pending
// draw. The pack cost is referral-eligible.
func (e *Engine) OpenBoosterCommit(gs *state.GlobalState, p *state.Player, now uint64) error {
	if !gs.ProductionEnabled {
		return ErrProductionDisabled
	}
	if p.IsPending() {
		return ErrActionAlreadyPending
	}
	if int(p.CardCount)+boosterDraws > state.MaxCardsPerPlayer {
		return state.ErrInventoryFull
	}
	cost := gs.BoosterPackCostMicrotokens
	if e.tokens.Balance(p.Owner) < cost {
		return ledger.ErrInsufficientFunds
	}

	if _, err := rewards.Settle(gs, p, now, e.tokens); err != nil {
		return err
	}

	if _, err := fees.Distribute(gs, p, cost, true, e.tokens); err != nil {
		return err
	}

	p.Pending = state.PendingAction{Kind: state.PendingBooster}
	p.CommitSlot = now
	p.TotalTokensSpent = safemath.SaturatingAdd(p.TotalTokensSpent, cost)
	return nil
}

// SettleOpenBooster resolves a pending booster: five independent
// draws from the reveal slot's hash, each mapping its own four-byte
// window to a rarity and a template of that rarity. A rarity with no
// templates skips the draw silently.
func (e *Engine) SettleOpenBooster(gs *state.GlobalState, p *state.Player, now uint64) ([5]uint16, error) {
	var drawn [5]uint16

	if p.Pending.Kind == state.PendingNone {
		return drawn, ErrNoActionPending
	}
	if p.Pending.Kind != state.PendingBooster {
		return drawn, ErrWrongPendingAction
	}

	hash, err := e.revealHash(p, now)
	if err != nil {
		return drawn, err
	}

	if err := e.settleBeforeReveal(gs, p, now); err != nil {
		return drawn, err
	}

	for i := 0; i < boosterDraws; i++ {
		v := binary.LittleEndian.Uint32(hash[i*4 : i*4+4])
		rarity := drawRarity(v)
		candidates := catalog.ByRarity(rarity)
		if len(candidates) == 0 {
			continue
		}
		tpl := pickTemplate(v, candidates)
		if err := p.AddCard(state.Card{
			ID:               tpl.ID,
			Rarity:           tpl.Rarity,
			Hashpower:        tpl.Hashpower,
			BerryConsumption: tpl.BerryConsumption,
		}); err != nil {
			return drawn, err
		}
		drawn[i] = tpl.ID
	}

	p.ClearPending()
	p.TotalBoosterPacksOpened = safemath.SaturatingAdd(p.TotalBoosterPacksOpened, 1)
	gs.TotalBoosterPacksOpened = safemath.SaturatingAdd(gs.TotalBoosterPacksOpened, 1)

	e.logger.Debug("Booster settled",
		zap.String("player", p.Owner.String()),
		zap.Uint64("slot", now))

	e.emit(events.BoosterOpenedEvent{
		BaseEvent: baseEvent(events.BoosterOpened, p.Owner, now),
		CardIDs:   drawn,
	})
	return drawn, nil
}

// RecycleCardsCommit registers a batch of unstaked cards for
// recycling. The cards stay in the inventory, locked against staking
// and discarding, until settle or cancel.
func (e *Engine) RecycleCardsCommit(gs *state.GlobalState, p *state.Player, indices []uint8, now uint64) error {
	if !gs.ProductionEnabled {
		return ErrProductionDisabled
	}
	if p.IsPending() {
		return ErrActionAlreadyPending
	}
	if len(indices) == 0 || len(indices) > state.MaxCardsPerPlayer {
		return ErrInvalidRecycleCount
	}
	if int(p.CardCount) < len(indices) {
		return ErrInvalidRecycleCount
	}

	seen := make(map[uint8]struct{}, len(indices))
	for _, idx := range indices {
		if _, dup := seen[idx]; dup {
			return ErrDuplicateIndices
		}
		seen[idx] = struct{}{}
		if err := p.ValidateCardIndex(idx); err != nil {
			return err
		}
		if p.IsCardStaked(idx) {
			return state.ErrCardStaked
		}
	}

	p.Pending = state.PendingAction{
		Kind:    state.PendingRecycle,
		Indices: append([]uint8(nil), indices...),
	}
	p.CommitSlot = now
	gs.TotalCardRecyclingAttempts = safemath.SaturatingAdd(gs.TotalCardRecyclingAttempts, 1)
	return nil
}

// RecycleCardsSettle resolves a pending recycle. Each selected card
// rolls its own entropy byte: below the threshold it is replaced by a
// uniformly drawn template one tier up, otherwise it is destroyed.
// Mega-rare cards have no next tier and are always destroyed here.
// All selected cards are removed in one batch before the upgraded
// replacements are appended.
func (e *Engine) RecycleCardsSettle(gs *state.GlobalState, p *state.Player, now uint64) (recycled, upgrades uint8, err error) {
	if p.Pending.Kind == state.PendingNone {
		return 0, 0, ErrNoActionPending
	}
	if p.Pending.Kind != state.PendingRecycle {
		return 0, 0, ErrWrongPendingAction
	}

	hash, err := e.revealHash(p, now)
	if err != nil {
		return 0, 0, err
	}

	if err := e.settleBeforeReveal(gs, p, now); err != nil {
		return 0, 0, err
	}

	indices := p.Pending.Indices
	var replacements []state.Card
	for i, idx := range indices {
		// A discard while the recycle was pending may have shrunk
		// the prefix; stale indices are skipped. Compaction can also
		// repoint a surviving index at a different card. If that card
		// is now staked, the batch removal below rejects the whole
		// settlement and the commit stays pending until cancellation.
		if idx >= p.CardCount {
			continue
		}

		if hash[i%len(hash)] >= recycleUpgradeThreshold {
			continue
		}
		next, ok := catalog.NextRarity(p.Cards[idx].Rarity)
		if !ok {
			continue
		}
		candidates := catalog.ByRarity(next)
		if len(candidates) == 0 {
			continue
		}
		start := (i * 4) % (len(hash) - 3)
		v := binary.LittleEndian.Uint32(hash[start : start+4])
		tpl := candidates[int(v)%len(candidates)]
		replacements = append(replacements, state.Card{
			ID:               tpl.ID,
			Rarity:           tpl.Rarity,
			Hashpower:        tpl.Hashpower,
			BerryConsumption: tpl.BerryConsumption,
		})
	}

	if err := p.BatchRemoveCards(indices); err != nil {
		return 0, 0, err
	}
	for _, card := range replacements {
		if err := p.AddCard(card); err != nil {
			return 0, 0, err
		}
	}

	recycled = uint8(len(indices))
	upgrades = uint8(len(replacements))
	p.ClearPending()

	p.TotalCardsRecycled = safemath.SaturatingAdd(p.TotalCardsRecycled, uint64(recycled))
	if upgrades > 0 {
		p.SuccessfulCardRecycling = safemath.SaturatingAdd(p.SuccessfulCardRecycling, uint64(upgrades))
		gs.TotalSuccessfulCardRecycling = safemath.SaturatingAdd(gs.TotalSuccessfulCardRecycling, uint64(upgrades))
	}

	e.emit(events.CardsRecycledEvent{
		BaseEvent:          baseEvent(events.CardsRecycled, p.Owner, now),
		TotalRecycled:      recycled,
		SuccessfulUpgrades: upgrades,
	})
	return recycled, upgrades, nil
}

// CancelPendingAction abandons a pending random action after its
// timeout. Recycle targets were never removed at commit time, so
// cancellation just clears the pending marker and the cards stay put.
func (e *Engine) CancelPendingAction(gs *state.GlobalState, p *state.Player, now uint64) error {
	if !p.IsPending() {
		return ErrNoActionPending
	}
	if now <= p.CommitSlot+state.CancelTimeoutSlots {
		return ErrCancelTimeoutNotExpired
	}
	p.ClearPending()
	return nil
}
