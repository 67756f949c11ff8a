// ==================================
// File: internal/engine/engine.go
// ==================================

// Package engine ties the reward accumulator, the player inventory,
// the commit/reveal scheduler and the fee distributor into the game's
// operation surface. Execution is single-threaded per game instance:
// every operation runs to completion with exclusive access to the
// GlobalState and the acting Player, and all waiting is expressed as a
// failed precondition the caller retries in a later slot.
package engine

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/hashfarm/hashfarm/internal/entropy"
	"github.com/hashfarm/hashfarm/internal/events"
	"github.com/hashfarm/hashfarm/internal/ledger"
	"github.com/hashfarm/hashfarm/internal/safemath"
)

// Engine executes game operations against explicit state pairs.
type Engine struct {
	tokens    ledger.Ledger
	sol       ledger.Ledger
	entropy   entropy.Source
	bus       *events.Bus
	logger    *zap.Logger
	allowList map[solana.PublicKey]struct{}
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithBus attaches an event bus for game telemetry.
func WithBus(bus *events.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithAllowList restricts initial farm purchases to the given wallets.
// An empty list keeps purchases open.
func WithAllowList(wallets []solana.PublicKey) Option {
	return func(e *Engine) {
		e.allowList = make(map[solana.PublicKey]struct{}, len(wallets))
		for _, w := range wallets {
			e.allowList[w] = struct{}{}
		}
	}
}

// New creates an engine. tokens is the game-token ledger, sol the
// lamport ledger used for the initial farm fee.
func New(tokens, sol ledger.Ledger, src entropy.Source, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		tokens:  tokens,
		sol:     sol,
		entropy: src,
		logger:  logger.Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// emit publishes a telemetry event if a bus is attached.
func (e *Engine) emit(event events.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(event); err != nil {
		e.logger.Debug("Event dropped", zap.String("event_type", string(event.Type())))
	}
}

func baseEvent(typ events.EventType, player solana.PublicKey, slot uint64) events.BaseEvent {
	return events.BaseEvent{
		EventType: typ,
		EventTime: time.Now().UTC(),
		Slot:      slot,
		Player:    player,
	}
}

// mustAdd guards global-total bookkeeping. Overflow here means the
// supply-wide invariants are already broken, which is not a caller
// error.
func mustAdd(a, b uint64, what string) uint64 {
	sum, ok := safemath.CheckedAdd(a, b)
	if !ok {
		panic(fmt.Sprintf("invariant violation: %s overflow (%d + %d)", what, a, b))
	}
	return sum
}

// mustSub guards symmetric subtraction; going negative means a stake
// was recorded without its contribution.
func mustSub(a, b uint64, what string) uint64 {
	diff, ok := safemath.CheckedSub(a, b)
	if !ok {
		panic(fmt.Sprintf("invariant violation: %s underflow (%d - %d)", what, a, b))
	}
	return diff
}
