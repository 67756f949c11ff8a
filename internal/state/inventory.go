// ==================================
// File: internal/state/inventory.go
// ==================================
package state

import (
	"errors"
	"math/bits"
)

var (
	ErrInvalidCardIndex = errors.New("card index out of bounds")
	ErrCardStaked       = errors.New("card is already staked")
	ErrCardNotStaked    = errors.New("card is not staked")
	ErrCardRecycling    = errors.New("card is part of a pending recycle")
	ErrInventoryFull    = errors.New("card inventory is full")
)

// IsCardStaked reports whether the bit for the slot index is set.
func (p *Player) IsCardStaked(index uint8) bool {
	return p.stakedMask[index/64]&(1<<(index%64)) != 0
}

// CountStakedCards counts the set bits in the staking mask.
func (p *Player) CountStakedCards() uint8 {
	return uint8(bits.OnesCount64(p.stakedMask[0]) + bits.OnesCount64(p.stakedMask[1]))
}

// IsCardBeingRecycled reports whether the index is a target of the
// pending recycle action, if any.
func (p *Player) IsCardBeingRecycled(index uint8) bool {
	if p.Pending.Kind != PendingRecycle {
		return false
	}
	for _, i := range p.Pending.Indices {
		if i == index {
			return true
		}
	}
	return false
}

// ValidateCardIndex checks that the index names a live slot.
func (p *Player) ValidateCardIndex(index uint8) error {
	if index >= p.CardCount {
		return ErrInvalidCardIndex
	}
	return nil
}

// AddCard appends a card at the first free slot.
func (p *Player) AddCard(card Card) error {
	if p.CardCount >= MaxCardsPerPlayer {
		return ErrInventoryFull
	}
	p.Cards[p.CardCount] = card
	p.CardCount++
	return nil
}

// SetStaked flips the staking bit for a live slot. Capacity and total
// bookkeeping are the caller's job; this only touches the mask.
func (p *Player) SetStaked(index uint8, staked bool) error {
	if err := p.ValidateCardIndex(index); err != nil {
		return err
	}
	if staked {
		if p.IsCardStaked(index) {
			return ErrCardStaked
		}
		p.stakedMask[index/64] |= 1 << (index % 64)
		return nil
	}
	if !p.IsCardStaked(index) {
		return ErrCardNotStaked
	}
	p.stakedMask[index/64] &^= 1 << (index % 64)
	return nil
}

// BatchRemoveCards removes every listed slot and compacts the prefix.
// Indices past CardCount are ignored (a concurrent discard may have
// shrunk the prefix since the list was recorded).
//
// The staking mask is keyed by slot position, so compaction rebuilds
// it from the surviving cards rather than shifting bits: each kept
// card carries its staked flag to its new position. Removing a staked
// card without unstaking it first would desynchronize the berry and
// hashpower totals, so that is rejected.
func (p *Player) BatchRemoveCards(indices []uint8) error {
	if len(indices) == 0 {
		return nil
	}

	var remove [MaxCardsPerPlayer]bool
	for _, idx := range indices {
		if idx >= p.CardCount {
			continue
		}
		if p.IsCardStaked(idx) {
			return ErrCardStaked
		}
		remove[idx] = true
	}

	var (
		newCards [MaxCardsPerPlayer]Card
		newMask  [2]uint64
		w        uint8
	)
	for r := uint8(0); r < p.CardCount; r++ {
		if remove[r] {
			continue
		}
		newCards[w] = p.Cards[r]
		if p.IsCardStaked(r) {
			newMask[w/64] |= 1 << (w % 64)
		}
		w++
	}

	p.Cards = newCards
	p.stakedMask = newMask
	p.CardCount = w
	return nil
}

// ResetInventory clears cards, mask and farm back to the reset tier.
func (p *Player) ResetInventory(farm Farm) {
	p.Cards = [MaxCardsPerPlayer]Card{}
	p.CardCount = 0
	p.stakedMask = [2]uint64{}
	p.Berries = 0
	p.TotalHashpower = 0
	p.Farm = farm
}
