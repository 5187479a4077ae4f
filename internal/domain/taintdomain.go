package domain

import (
	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/policy"
	"github.com/Edvold/jpamb-analyzer/internal/taint"
)

// Taint adapts internal/taint.Value to Domain[taint.Value], and
// implements InvokeHandler to give method invocation its taint-mode
// semantics (spec.md §4.5).
type Taint struct {
	Policy policy.Policy
}

var _ Domain[taint.Value] = Taint{}
var _ InvokeHandler[taint.Value] = Taint{}

func (Taint) Top() taint.Value    { return taint.Unknown }
func (Taint) Bottom() taint.Value { return taint.Bot }
func (Taint) Join(a, b taint.Value) taint.Value { return a.Join(b) }

// Add/Sub/Mul/Div/Rem have no numeric meaning for taint; arithmetic on
// tainted operands still propagates taint, so these simply join their
// operands. Div/Rem never report a divide-by-zero: taint is not a
// numeric domain and spec.md §4.5 scopes Div/Rem as "sign-mode only".
func (t Taint) Add(a, b taint.Value) taint.Value { return a.Join(b) }
func (t Taint) Sub(a, b taint.Value) taint.Value { return a.Join(b) }
func (t Taint) Mul(a, b taint.Value) taint.Value { return a.Join(b) }
func (t Taint) Div(a, b taint.Value) (taint.Value, bool) { return a.Join(b), false }
func (t Taint) Rem(a, b taint.Value) (taint.Value, bool) { return a.Join(b), false }

// ConstOf maps every literal to safe: taint mode only cares about
// values that flow from a configured source.
func (Taint) ConstOf(c bytecode.Const) taint.Value { return taint.Safe }

func (Taint) String(v taint.Value) string { return v.String() }

// Invoke implements the three-way policy dispatch from spec.md §4.5:
// sources produce tainted, sinks check their first argument, string
// combinators join their argument taints, everything else
// conservatively joins all argument taints.
func (t Taint) Invoke(in InvokeArgs[taint.Value]) (result taint.Value, sqlInjection bool) {
	name := in.Method.Class + "." + in.Method.Method

	if t.Policy.IsSource(name) {
		return taint.Tainted, false
	}

	if t.Policy.IsSink(name) {
		if len(in.Args) > 0 && in.Args[0].MayBeTainted() {
			return taint.Unknown, true
		}
		if in.Returns {
			return taint.Safe, false
		}
		return taint.Bot, false
	}

	joined := taint.Bot
	for _, a := range in.Args {
		joined = joined.Join(a)
	}

	if t.Policy.IsCombinator(name) {
		return joined, false
	}

	if !in.Returns {
		return taint.Bot, false
	}
	if joined == taint.Bot {
		return taint.Unknown, false
	}
	return joined, false
}
