// Package domain defines the interface the transfer function is
// parameterized over (spec.md §4.5, §9 "domain polymorphism over two
// lattices"), plus the two concrete instantiations: sign and taint.
//
// A handful of opcodes behave differently per domain beyond plain
// value-lattice operations (the "$assertionsDisabled" field read, and
// method invocation in taint mode). Rather than bloating Domain with
// mode-specific methods every instantiation must implement as a
// no-op, those are modeled as small optional interfaces a concrete
// domain can additionally satisfy — the same pattern the standard
// library uses for io.ReaderFrom/WriterTo.
package domain

import (
	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/lengthabs"
)

// Domain is the set of operations the generic transfer function needs
// from an abstract value lattice.
type Domain[V comparable] interface {
	Top() V
	Bottom() V
	Join(a, b V) V

	Add(a, b V) V
	Sub(a, b V) V
	Mul(a, b V) V
	// Div and Rem return the abstract result and a may-divide-by-zero
	// flag. Only the sign domain gives these non-trivial semantics;
	// spec.md §4.5 scopes them as "sign-mode only".
	Div(a, b V) (V, bool)
	Rem(a, b V) (V, bool)

	// ConstOf is abstract_of_constant: the mapping from a literal to
	// this domain's abstraction of it.
	ConstOf(c bytecode.Const) V

	String(v V) string
}

// AssertionsDisabledField is an optional interface a Domain can
// implement to special-case the compiler-generated
// "$assertionsDisabled" field read (spec.md §4.5). Domains that don't
// implement it get the default: every field read pushes Top.
type AssertionsDisabledField[V comparable] interface {
	AssertionsDisabledValue() V
}

// InvokeArgs is what the transfer function gives a domain-specific
// invocation handler: the argument values below the stack top, in
// left-to-right order, and the static/virtual/special/dynamic kind.
type InvokeArgs[V comparable] struct {
	Method bytecode.MethodID
	Kind   bytecode.Kind
	Args   []V
	// Returns reports whether the invoked method's signature leaves a
	// value on the stack (ReturnType != "").
	Returns bool
}

// InvokeHandler is an optional interface a Domain can implement to
// give method invocation non-default semantics. Only the taint domain
// implements it (spec.md §4.5, "Method invocation — interpreted only
// in taint mode"); the sign domain falls through to the transfer
// function's default: pop the arguments, push Top if the method
// returns.
type InvokeHandler[V comparable] interface {
	Invoke(in InvokeArgs[V]) (result V, sqlInjection bool)
}

// ZeroTester is an optional interface a Domain can implement to
// resolve an ifz branch precisely (spec.md §4.5 "Branch on zero").
// Only the sign domain implements it; without it, both branch
// successors are always emitted, matching "for any other comparator
// (taint mode, or sign unable to decide): emit both successors".
type ZeroTester[V comparable] interface {
	MayBeZero(v V) bool
	MayBeNonzero(v V) bool
}

// ArraySizer is an optional interface a Domain can implement to turn
// the abstract size pushed before a new-array into a LengthInterval
// (spec.md §4.5 "Array allocation"). Without it, every allocation gets
// Top(), the least precise but still sound length.
type ArraySizer[V comparable] interface {
	ArraySize(v V) lengthabs.Interval
}

// IndexRanger is an optional interface a Domain can implement to turn
// an abstract index value into a concrete [lo, hi] range for
// LengthInterval.MayContainIndex (spec.md §4.1 mapping, §4.5 "Array
// load / store"). Without it, the index range is maximally imprecise:
// [-∞, ∞].
type IndexRanger[V comparable] interface {
	IndexRange(v V) (lo, hi int64)
}
