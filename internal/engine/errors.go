// ==================================
// File: internal/engine/errors.go
// ==================================
package engine

import "errors"

var (
	ErrUnauthorized       = errors.New("caller is not authorized for this record")
	ErrProductionDisabled = errors.New("production is disabled")

	ErrFarmAlreadyPurchased = errors.New("initial farm already purchased")
	ErrSelfReferral         = errors.New("self-referral is not allowed")
	ErrInvalidFarmTier      = errors.New("invalid farm tier")

	ErrStakedCardLimit       = errors.New("staked card limit reached")
	ErrBerryCapacityExceeded = errors.New("berry capacity exceeded")

	ErrActionAlreadyPending = errors.New("a random action is already pending")
	ErrNoActionPending      = errors.New("no random action is pending")
	ErrWrongPendingAction   = errors.New("pending action is of a different kind")

	ErrRandomnessNotResolved   = errors.New("reveal slot not reached yet")
	ErrEntropyNotFound         = errors.New("entropy for the reveal slot is no longer available")
	ErrCancelTimeoutNotExpired = errors.New("cancel timeout not expired")

	ErrInvalidRecycleCount = errors.New("invalid recycle card count")
	ErrDuplicateIndices    = errors.New("duplicate card indices")

	ErrStakingLockupActive = errors.New("staking lockup has not elapsed")
	ErrInvalidAmount       = errors.New("amount must be positive")

	ErrInvalidParameter = errors.New("parameter value out of range")
)
