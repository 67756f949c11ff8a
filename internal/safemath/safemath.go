// ==================================
// File: internal/safemath/safemath.go
// ==================================
package safemath

import "math/bits"

// CheckedAdd returns a+b and false on overflow.
func CheckedAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// CheckedSub returns a-b and false when the result would go negative.
func CheckedSub(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow == 0
}

// CheckedMul returns a*b and false on overflow.
func CheckedMul(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// SaturatingAdd clamps to MaxUint64 instead of wrapping.
func SaturatingAdd(a, b uint64) uint64 {
	if sum, ok := CheckedAdd(a, b); ok {
		return sum
	}
	return ^uint64(0)
}

// SaturatingSub clamps to zero instead of wrapping.
func SaturatingSub(a, b uint64) uint64 {
	if diff, ok := CheckedSub(a, b); ok {
		return diff
	}
	return 0
}

// SaturatingMul clamps to MaxUint64 instead of wrapping.
func SaturatingMul(a, b uint64) uint64 {
	if prod, ok := CheckedMul(a, b); ok {
		return prod
	}
	return ^uint64(0)
}

// Uint128 is an unsigned 128-bit integer used for the reward
// accumulators, where a 64-bit value would silently lose precision
// once scaled by AccScale.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// U128From64 widens a uint64.
func U128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Mul128 computes a*b as a full 128-bit product.
func Mul128(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	return Uint128{Hi: hi, Lo: lo}
}

// IsZero reports whether the value is zero.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// Cmp returns -1, 0 or 1 comparing u against v.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// Add returns u+v, saturating at the 128-bit maximum.
func (u Uint128) Add(v Uint128) Uint128 {
	lo, carry := bits.Add64(u.Lo, v.Lo, 0)
	hi, carry2 := bits.Add64(u.Hi, v.Hi, carry)
	if carry2 != 0 {
		return Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
	return Uint128{Hi: hi, Lo: lo}
}

// Sub returns u-v, saturating at zero.
func (u Uint128) Sub(v Uint128) Uint128 {
	lo, borrow := bits.Sub64(u.Lo, v.Lo, 0)
	hi, borrow2 := bits.Sub64(u.Hi, v.Hi, borrow)
	if borrow2 != 0 {
		return Uint128{}
	}
	return Uint128{Hi: hi, Lo: lo}
}

// Mul64 returns u*m, saturating at the 128-bit maximum.
func (u Uint128) Mul64(m uint64) Uint128 {
	hi, lo := bits.Mul64(u.Lo, m)
	hiProdHi, hiProdLo := bits.Mul64(u.Hi, m)
	if hiProdHi != 0 {
		return Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
	sumHi, carry := bits.Add64(hi, hiProdLo, 0)
	if carry != 0 {
		return Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
	return Uint128{Hi: sumHi, Lo: lo}
}

// Div64 returns u/d. Division by zero returns the 128-bit maximum.
func (u Uint128) Div64(d uint64) Uint128 {
	if d == 0 {
		return Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
	qHi := u.Hi / d
	rem := u.Hi % d
	qLo, _ := bits.Div64(rem, u.Lo, d)
	return Uint128{Hi: qHi, Lo: qLo}
}

// Truncate64 narrows to uint64, dropping the high word. Matches the
// behavior of a plain integer cast; callers clamp separately where a
// clamp is wanted.
func (u Uint128) Truncate64() uint64 {
	return u.Lo
}
