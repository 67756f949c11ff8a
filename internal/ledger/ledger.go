// ==================================
// File: internal/ledger/ledger.go
// ==================================
package ledger

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/hashfarm/hashfarm/internal/safemath"
)

// ErrInsufficientFunds signals a debit larger than the account balance.
// Any operation that receives it must leave game state untouched.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger is the token primitive the engine drives. Implementations are
// assumed atomic per call: a failed call moves nothing.
type Ledger interface {
	Transfer(from, to solana.PublicKey, amount uint64) error
	Burn(account solana.PublicKey, amount uint64) error
	MintTo(account solana.PublicKey, amount uint64) error
	Balance(account solana.PublicKey) uint64
}

// Memory is an in-process ledger keyed by account public key. One
// instance models the game token, a second one models lamports.
type Memory struct {
	balances map[solana.PublicKey]uint64
	burned   uint64
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{balances: make(map[solana.PublicKey]uint64)}
}

func (m *Memory) Transfer(from, to solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}
	bal := m.balances[from]
	if bal < amount {
		return fmt.Errorf("transfer %d from %s (balance %d): %w", amount, from, bal, ErrInsufficientFunds)
	}
	m.balances[from] = bal - amount
	m.balances[to] = safemath.SaturatingAdd(m.balances[to], amount)
	return nil
}

func (m *Memory) Burn(account solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}
	bal := m.balances[account]
	if bal < amount {
		return fmt.Errorf("burn %d from %s (balance %d): %w", amount, account, bal, ErrInsufficientFunds)
	}
	m.balances[account] = bal - amount
	m.burned += amount
	return nil
}

func (m *Memory) MintTo(account solana.PublicKey, amount uint64) error {
	m.balances[account] = safemath.SaturatingAdd(m.balances[account], amount)
	return nil
}

func (m *Memory) Balance(account solana.PublicKey) uint64 {
	return m.balances[account]
}

// Burned returns the total destroyed through Burn.
func (m *Memory) Burned() uint64 {
	return m.burned
}
