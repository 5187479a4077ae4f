// Package lengthabs implements the length-interval heap abstraction:
// closed intervals [lo, hi] over non-negative integers, abstracting the
// possible sizes of an allocated array.
package lengthabs

import (
	"math"
	"strconv"
)

// Unbounded is the sentinel hi value standing in for +∞, kept as a
// distinguished constant (rather than math.MaxInt64 arithmetic) so
// that Join/AddConst never silently overflow.
const Unbounded = math.MaxInt64

// Interval is a closed interval [Lo, Hi] with 0 <= Lo <= Hi <= Unbounded.
type Interval struct {
	Lo, Hi int64
}

// Const returns the singleton interval [n, n].
func Const(n int64) Interval { return Interval{n, n} }

// Top returns [0, ∞), the least precise length abstraction.
func Top() Interval { return Interval{0, Unbounded} }

// Join returns the smallest interval containing both a and b.
func (a Interval) Join(b Interval) Interval {
	lo := a.Lo
	if b.Lo < lo {
		lo = b.Lo
	}
	hi := a.Hi
	if b.Hi > hi {
		hi = b.Hi
	}
	return Interval{lo, hi}
}

// AddConst shifts the interval by a constant k, clamping Lo to 0 (an
// array length can never go negative even if the shift would).
func (a Interval) AddConst(k int64) Interval {
	lo := a.Lo + k
	if lo < 0 {
		lo = 0
	}
	hi := a.Hi
	if hi != Unbounded {
		hi += k
	}
	return Interval{lo, hi}
}

// MayContainIndex reports, for an index abstracted by [idxLo, idxHi],
// whether some concrete (length, index) pair drawn from a and the
// index range is in bounds (mayIn) and whether some pair is out of
// bounds (mayOOB). Both may be true for an imprecise index.
func (a Interval) MayContainIndex(idxLo, idxHi int64) (mayIn, mayOOB bool) {
	mayOOB = idxLo < 0 || idxHi >= a.Lo

	if idxHi < 0 {
		return false, mayOOB
	}
	nnLo := idxLo
	if nnLo < 0 {
		nnLo = 0
	}
	nnHi := idxHi
	if nnLo > nnHi {
		return false, mayOOB
	}
	mayIn = a.Hi > nnLo
	return mayIn, mayOOB
}

func (a Interval) String() string {
	hi := "∞"
	if a.Hi != Unbounded {
		hi = strconv.FormatInt(a.Hi, 10)
	}
	return "[" + strconv.FormatInt(a.Lo, 10) + ", " + hi + "]"
}
