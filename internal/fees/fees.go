// ==================================
// File: internal/fees/fees.go
// ==================================

// Package fees splits every paid amount into a burned portion and a
// fee portion, and routes the fee between the player's referrer and
// the protocol treasury.
package fees

import (
	"fmt"

	"github.com/hashfarm/hashfarm/internal/ledger"
	"github.com/hashfarm/hashfarm/internal/safemath"
	"github.com/hashfarm/hashfarm/internal/state"
)

// Split is the computed breakdown of a payment.
type Split struct {
	Burn       uint64
	Commission uint64
	Protocol   uint64
}

// Compute derives the split without touching any state.
// burn = amount*burnRate/100, fee = amount-burn; the fee goes to the
// referrer (commission = fee*referralFee/100) and treasury only when
// the payment is referral-eligible and a referrer exists.
func Compute(gs *state.GlobalState, p *state.Player, amount uint64, referralEligible bool) Split {
	burn := safemath.SaturatingMul(amount, uint64(gs.BurnRate)) / 100
	fee := safemath.SaturatingSub(amount, burn)

	if referralEligible && p.Referrer != nil {
		commission := safemath.SaturatingMul(fee, uint64(gs.ReferralFee)) / 100
		return Split{
			Burn:       burn,
			Commission: commission,
			Protocol:   fee - commission,
		}
	}
	return Split{Burn: burn, Protocol: fee}
}

// Distribute applies the split through the token ledger: the burn
// portion is destroyed from the payer's balance, the rest transferred.
// Zero sub-amounts are skipped. Referral commission is only paid on
// referral-eligible payments (booster purchases); farm upgrades route
// the whole fee to the treasury.
func Distribute(gs *state.GlobalState, p *state.Player, amount uint64, referralEligible bool, ld ledger.Ledger) (Split, error) {
	split := Compute(gs, p, amount, referralEligible)

	if split.Burn > 0 {
		if err := ld.Burn(p.Owner, split.Burn); err != nil {
			return Split{}, fmt.Errorf("burn portion: %w", err)
		}
		gs.BurnedTokens = safemath.SaturatingAdd(gs.BurnedTokens, split.Burn)
	}

	if split.Commission > 0 {
		if err := ld.Transfer(p.Owner, *p.Referrer, split.Commission); err != nil {
			return Split{}, fmt.Errorf("referral commission: %w", err)
		}
		p.TotalEarningsForReferrer = safemath.SaturatingAdd(p.TotalEarningsForReferrer, split.Commission)
	}

	if split.Protocol > 0 {
		if err := ld.Transfer(p.Owner, gs.FeesWallet, split.Protocol); err != nil {
			return Split{}, fmt.Errorf("protocol fee: %w", err)
		}
	}

	return split, nil
}
