package domain

import (
	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/lengthabs"
	"github.com/Edvold/jpamb-analyzer/internal/sign"
)

// Sign adapts internal/sign.Set to the Domain[sign.Set] interface.
type Sign struct{}

var _ Domain[sign.Set] = Sign{}
var _ AssertionsDisabledField[sign.Set] = Sign{}
var _ ZeroTester[sign.Set] = Sign{}
var _ ArraySizer[sign.Set] = Sign{}
var _ IndexRanger[sign.Set] = Sign{}

func (Sign) Top() sign.Set    { return sign.Top }
func (Sign) Bottom() sign.Set { return sign.Bot }
func (Sign) Join(a, b sign.Set) sign.Set { return a.Join(b) }

func (Sign) Add(a, b sign.Set) sign.Set { return a.Add(b) }
func (Sign) Sub(a, b sign.Set) sign.Set { return a.Sub(b) }
func (Sign) Mul(a, b sign.Set) sign.Set { return a.Mul(b) }
func (Sign) Div(a, b sign.Set) (sign.Set, bool) { return a.Div(b) }
func (Sign) Rem(a, b sign.Set) (sign.Set, bool) { return a.Rem(b) }

// ConstOf maps integers, booleans, and characters to their sign;
// character code points are never negative, so they always map to
// Pos (or Zero for NUL). Everything else (arrays, references) is Top:
// the sign domain does not reason about non-integer values.
func (Sign) ConstOf(c bytecode.Const) sign.Set {
	switch c.Kind {
	case bytecode.IntConst:
		return sign.Of(c.Int)
	case bytecode.BoolConst:
		return sign.Of(c.Int)
	case bytecode.CharConst:
		return sign.Of(c.Int)
	default:
		return sign.Top
	}
}

func (Sign) String(v sign.Set) string { return v.String() }

// AssertionsDisabledValue makes the synthetic "$assertionsDisabled"
// field read as zero, so downstream ifz conditionals analyze both the
// assertions-enabled and assertions-disabled paths as reachable
// exactly when the sign domain cannot otherwise rule one out (here:
// never, since the value is pinned to zero).
func (Sign) AssertionsDisabledValue() sign.Set { return sign.Zero }

// MayBeZero and MayBeNonzero resolve ifz eq/ne branches precisely.
func (Sign) MayBeZero(v sign.Set) bool    { return v.MayBeZero() }
func (Sign) MayBeNonzero(v sign.Set) bool { return v.MayBeNonzero() }

// ArraySize derives a LengthInterval from the abstract size pushed
// before a new-array allocation (spec.md §4.5 "Array allocation"):
// a size that may be negative or is Bot gets Top (unsound concrete
// sizes still produce a sound successor for the analysis); an exactly
// zero size is [0,0]; a strictly positive size is [1,∞); anything else
// (imprecise but nonnegative) is [0,∞).
func (Sign) ArraySize(v sign.Set) lengthabs.Interval {
	if v.IsBot() || v.MayBeNegative() {
		return lengthabs.Top()
	}
	if v == sign.Zero {
		return lengthabs.Const(0)
	}
	if v.MayBePositive() && !v.MayBeZero() {
		return lengthabs.Interval{Lo: 1, Hi: lengthabs.Unbounded}
	}
	return lengthabs.Top()
}

// IndexRange maps a sign abstraction to the concrete index range used
// by LengthInterval.MayContainIndex, per spec.md §4.1's index mapping.
func (Sign) IndexRange(v sign.Set) (lo, hi int64) {
	if v == sign.Zero {
		return 0, 0
	}
	if v.MayBePositive() && !v.MayBeZero() && !v.MayBeNegative() {
		return 1, lengthabs.Unbounded
	}
	if v.MayBeNegative() && !v.MayBePositive() && !v.MayBeZero() {
		return -lengthabs.Unbounded, -1
	}
	return -lengthabs.Unbounded, lengthabs.Unbounded
}
