// Package sign implements the three-bit sign lattice used for integer
// abstraction: a power set over {negative, zero, positive}.
package sign

import "strings"

const (
	negBit = 1 << iota
	zeroBit
	posBit
)

// Set is an element of 𝒫({−, 0, +}), represented as a bitmask.
// The zero value is Bot (unreachable / never produced).
type Set struct {
	mask uint8
}

// Bot is the empty set: no concrete integer is abstracted by it.
var Bot = Set{0}

// Top abstracts every integer.
var Top = Set{negBit | zeroBit | posBit}

// Neg, Zero, Pos are the three atoms of the lattice.
var (
	Neg  = Set{negBit}
	Zero = Set{zeroBit}
	Pos  = Set{posBit}
)

// Of returns the singleton sign set for a concrete integer.
func Of(v int64) Set {
	switch {
	case v < 0:
		return Neg
	case v > 0:
		return Pos
	default:
		return Zero
	}
}

// Join is set union, the lattice's least-upper-bound operator.
func (a Set) Join(b Set) Set {
	return Set{a.mask | b.mask}
}

// IsBot reports whether a carries no concrete values.
func (a Set) IsBot() bool { return a.mask == 0 }

// MayBeNegative, MayBeZero, MayBePositive are membership tests.
func (a Set) MayBeNegative() bool { return a.mask&negBit != 0 }
func (a Set) MayBeZero() bool     { return a.mask&zeroBit != 0 }
func (a Set) MayBePositive() bool { return a.mask&posBit != 0 }

// MayBeNonzero reports whether a may abstract a nonzero integer.
func (a Set) MayBeNonzero() bool { return a.mask&(negBit|posBit) != 0 }

func fromFlags(neg, zero, pos bool) Set {
	var m uint8
	if neg {
		m |= negBit
	}
	if zero {
		m |= zeroBit
	}
	if pos {
		m |= posBit
	}
	return Set{m}
}

// Negate swaps − and + in place, leaving 0 untouched.
func (a Set) Negate() Set {
	return fromFlags(a.MayBePositive(), a.MayBeZero(), a.MayBeNegative())
}

// Add is the abstract transfer function for integer addition.
func (a Set) Add(b Set) Set {
	neg := a.MayBeNegative() || b.MayBeNegative()
	pos := a.MayBePositive() || b.MayBePositive()
	zero := a.MayBeZero() || b.MayBeZero() ||
		(a.MayBeNegative() && b.MayBePositive()) ||
		(a.MayBePositive() && b.MayBeNegative())
	return fromFlags(neg, zero, pos)
}

// Sub is subtraction, defined as a + (−b).
func (a Set) Sub(b Set) Set {
	return a.Add(b.Negate())
}

// Mul is the abstract transfer function for integer multiplication.
func (a Set) Mul(b Set) Set {
	zero := a.MayBeZero() || b.MayBeZero()
	neg := (a.MayBeNegative() && b.MayBePositive()) || (a.MayBePositive() && b.MayBeNegative())
	pos := (a.MayBePositive() && b.MayBePositive()) || (a.MayBeNegative() && b.MayBeNegative())
	return fromFlags(neg, zero, pos)
}

// Div computes the abstract quotient and a may-divide-by-zero flag.
// If b carries no nonzero sign, the quotient is Bot (no feasible
// division happens) but divByZero still reflects whether b may be
// zero.
func (a Set) Div(b Set) (quotient Set, divByZero bool) {
	divByZero = b.MayBeZero()
	nonzero := b.mask & (negBit | posBit)
	if nonzero == 0 {
		return Bot, divByZero
	}
	neg := (a.MayBeNegative() && nonzero&posBit != 0) || (a.MayBePositive() && nonzero&negBit != 0)
	pos := (a.MayBePositive() && nonzero&posBit != 0) || (a.MayBeNegative() && nonzero&negBit != 0)
	zero := a.MayBeZero()
	return fromFlags(neg, zero, pos), divByZero
}

// Rem computes the abstract remainder and a may-divide-by-zero flag.
// Unlike Div, the remainder admits zero whenever the dividend is not
// itself Bot — not only when the dividend may be zero — because a
// nonzero dividend exactly divisible by the divisor yields zero too.
func (a Set) Rem(b Set) (remainder Set, divByZero bool) {
	divByZero = b.MayBeZero()
	if !b.MayBeNonzero() {
		return Bot, divByZero
	}
	neg := a.MayBeNegative()
	pos := a.MayBePositive()
	zero := !a.IsBot()
	return fromFlags(neg, zero, pos), divByZero
}

// String renders a in the {−,0,+} / ⊥ / ⊤ notation used by the
// reference implementation this lattice was ported from.
func (a Set) String() string {
	if a.IsBot() {
		return "⊥"
	}
	if a == Top {
		return "⊤"
	}
	var parts []string
	if a.MayBeNegative() {
		parts = append(parts, "-")
	}
	if a.MayBeZero() {
		parts = append(parts, "0")
	}
	if a.MayBePositive() {
		parts = append(parts, "+")
	}
	return "{" + strings.Join(parts, ",") + "}"
}
