// ==================================
// File: internal/engine/cards.go
// ==================================
package engine

import (
	"github.com/hashfarm/hashfarm/internal/events"
	"github.com/hashfarm/hashfarm/internal/rewards"
	"github.com/hashfarm/hashfarm/internal/state"
)

// StakeCard starts a card producing. Rewards are settled before the
// player's hashpower changes so the new contribution only earns from
// this slot forward.
func (e *Engine) StakeCard(gs *state.GlobalState, p *state.Player, index uint8, now uint64) error {
	if err := p.ValidateCardIndex(index); err != nil {
		return err
	}
	if p.IsCardStaked(index) {
		return state.ErrCardStaked
	}
	if p.IsCardBeingRecycled(index) {
		return state.ErrCardRecycling
	}
	if p.CountStakedCards() >= p.Farm.TotalCards {
		return ErrStakedCardLimit
	}

	card := p.Cards[index]
	newBerries := mustAdd(p.Berries, uint64(card.BerryConsumption), "player berries")
	if newBerries > p.Farm.BerryCapacity {
		return ErrBerryCapacityExceeded
	}

	if _, err := rewards.Settle(gs, p, now, e.tokens); err != nil {
		return err
	}

	if err := p.SetStaked(index, true); err != nil {
		return err
	}
	p.Berries = newBerries
	p.TotalHashpower = mustAdd(p.TotalHashpower, uint64(card.Hashpower), "player hashpower")
	gs.TotalBerries = mustAdd(gs.TotalBerries, uint64(card.BerryConsumption), "global berries")
	gs.TotalHashpower = mustAdd(gs.TotalHashpower, uint64(card.Hashpower), "global hashpower")

	e.emit(events.CardStakedEvent{
		BaseEvent: baseEvent(events.CardStaked, p.Owner, now),
		CardIndex: index,
		CardID:    card.ID,
	})
	return nil
}

// UnstakeCard stops a card producing, settling rewards first so the
// outgoing contribution is paid up to this slot.
func (e *Engine) UnstakeCard(gs *state.GlobalState, p *state.Player, index uint8, now uint64) error {
	if err := p.ValidateCardIndex(index); err != nil {
		return err
	}
	if !p.IsCardStaked(index) {
		return state.ErrCardNotStaked
	}
	if p.IsCardBeingRecycled(index) {
		return state.ErrCardRecycling
	}

	if _, err := rewards.Settle(gs, p, now, e.tokens); err != nil {
		return err
	}

	card := p.Cards[index]
	if err := p.SetStaked(index, false); err != nil {
		return err
	}
	p.Berries = mustSub(p.Berries, uint64(card.BerryConsumption), "player berries")
	p.TotalHashpower = mustSub(p.TotalHashpower, uint64(card.Hashpower), "player hashpower")
	gs.TotalBerries = mustSub(gs.TotalBerries, uint64(card.BerryConsumption), "global berries")
	gs.TotalHashpower = mustSub(gs.TotalHashpower, uint64(card.Hashpower), "global hashpower")

	e.emit(events.CardUnstakedEvent{
		BaseEvent: baseEvent(events.CardUnstaked, p.Owner, now),
		CardIndex: index,
		CardID:    card.ID,
	})
	return nil
}

// DiscardCard permanently removes an unstaked card.
func (e *Engine) DiscardCard(gs *state.GlobalState, p *state.Player, index uint8, now uint64) error {
	if !gs.ProductionEnabled {
		return ErrProductionDisabled
	}
	if err := p.ValidateCardIndex(index); err != nil {
		return err
	}
	if p.IsCardStaked(index) {
		return state.ErrCardStaked
	}
	if p.IsCardBeingRecycled(index) {
		return state.ErrCardRecycling
	}

	if _, err := rewards.Settle(gs, p, now, e.tokens); err != nil {
		return err
	}

	if err := p.BatchRemoveCards([]uint8{index}); err != nil {
		return err
	}

	e.emit(events.CardDiscardedEvent{
		BaseEvent: baseEvent(events.CardDiscarded, p.Owner, now),
		CardIndex: index,
	})
	return nil
}
