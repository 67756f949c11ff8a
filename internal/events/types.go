// internal/events/types.go
package events

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// EventType represents the type of event.
type EventType string

const (
	FarmPurchased  EventType = "farm.purchased"
	FarmUpgraded   EventType = "farm.upgraded"
	CardStaked     EventType = "card.staked"
	CardUnstaked   EventType = "card.unstaked"
	CardDiscarded  EventType = "card.discarded"
	BoosterOpened  EventType = "booster.opened"
	CardsRecycled  EventType = "cards.recycled"
	RewardsClaimed EventType = "rewards.claimed"
	TokensStaked   EventType = "tokens.staked"
	TokensUnstaked EventType = "tokens.unstaked"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Base() BaseEvent
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
	Slot      uint64
	Player    solana.PublicKey
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// Base exposes the common fields to consumers that only see the
// interface, like the history exporter.
func (e BaseEvent) Base() BaseEvent {
	return e
}

// FarmPurchasedEvent is emitted when a player buys their initial farm.
type FarmPurchasedEvent struct {
	BaseEvent
	Referrer     *solana.PublicKey
	FarmType     uint8
	InitialCards uint8
}

// FarmUpgradedEvent is emitted when a farm moves up a tier.
type FarmUpgradedEvent struct {
	BaseEvent
	NewFarmType uint8
}

// CardStakedEvent is emitted when a card starts contributing hashpower.
type CardStakedEvent struct {
	BaseEvent
	CardIndex uint8
	CardID    uint16
}

// CardUnstakedEvent is emitted when a card stops contributing hashpower.
type CardUnstakedEvent struct {
	BaseEvent
	CardIndex uint8
	CardID    uint16
}

// CardDiscardedEvent is emitted when a card is thrown away.
type CardDiscardedEvent struct {
	BaseEvent
	CardIndex uint8
}

// BoosterOpenedEvent is emitted on booster settlement with the drawn
// card ids, in draw order. A zero id marks a skipped draw.
type BoosterOpenedEvent struct {
	BaseEvent
	CardIDs [5]uint16
}

// CardsRecycledEvent is emitted on recycle settlement.
type CardsRecycledEvent struct {
	BaseEvent
	TotalRecycled      uint8
	SuccessfulUpgrades uint8
}

// RewardsClaimedEvent is emitted on a non-zero reward settlement.
type RewardsClaimedEvent struct {
	BaseEvent
	Amount uint64
}

// TokensStakedEvent is emitted when tokens enter the staking pool.
type TokensStakedEvent struct {
	BaseEvent
	Amount uint64
}

// TokensUnstakedEvent is emitted when tokens leave the staking pool.
type TokensUnstakedEvent struct {
	BaseEvent
	Amount uint64
}
