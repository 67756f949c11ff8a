// ==================================
// File: internal/entropy/window.go
// ==================================

// Package entropy supplies the 32-byte per-slot hashes the commit/
// reveal protocol consumes. The Window mirrors the SlotHashes sysvar:
// a bounded, append-only history where a hash that rolls out of the
// window is gone for good.
package entropy

import (
	"github.com/gagliardetto/solana-go"
)

// DefaultWindowSize matches the on-chain SlotHashes history depth.
const DefaultWindowSize = 512

// Source resolves the hash recorded for an exact slot. The second
// return is false when the slot is outside the retained window.
type Source interface {
	SlotHash(slot uint64) (solana.Hash, bool)
}

type entry struct {
	slot uint64
	hash solana.Hash
}

// Window is the in-memory bounded history. Recording past the
// capacity evicts the oldest entry.
type Window struct {
	entries []entry
	size    int
}

// NewWindow creates a history retaining at most size entries; size <= 0
// falls back to DefaultWindowSize.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{size: size}
}

// Record appends the hash for a slot, evicting the oldest entry once
// the window is full. Slots are expected in increasing order.
func (w *Window) Record(slot uint64, hash solana.Hash) {
	if len(w.entries) == w.size {
		copy(w.entries, w.entries[1:])
		w.entries = w.entries[:w.size-1]
	}
	w.entries = append(w.entries, entry{slot: slot, hash: hash})
}

// SlotHash looks up the hash for the exact slot.
func (w *Window) SlotHash(slot uint64) (solana.Hash, bool) {
	// Newest entries live at the tail; reveal slots are usually
	// recent, so scan backwards.
	for i := len(w.entries) - 1; i >= 0; i-- {
		if w.entries[i].slot == slot {
			return w.entries[i].hash, true
		}
	}
	return solana.Hash{}, false
}

// Len returns the number of retained entries.
func (w *Window) Len() int {
	return len(w.entries)
}
