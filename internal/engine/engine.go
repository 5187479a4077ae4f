// Package engine implements the worklist fixed-point driver (spec.md
// §4.6): iterate the transfer function over the frontier, join
// outgoing edges into Seen, and stop when a round produces no growth
// or the step budget is exhausted.
//
// Structurally this is the same driver shape as sentra's EnhancedVM
// run loop (internal/vm/vm.go): a bounded loop over an instruction
// pointer that keeps stepping until there is nothing left to do, or a
// safety limit trips. Here the "instruction pointer" is a whole
// frontier of program points rather than one, and a step produces a
// set of successor states rather than one.
package engine

import (
	"github.com/google/uuid"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/errs"
	"github.com/Edvold/jpamb-analyzer/internal/frame"
	"github.com/Edvold/jpamb-analyzer/internal/transfer"
)

// DefaultStepBudget is the safety net from spec.md §4.6/§5: the only
// non-lattice termination guard.
const DefaultStepBudget = 1_000_000

// Config selects the transfer function's mode and bounds a run. The
// zero value is not usable; use NewConfig.
type Config struct {
	Mode       string // "sign" or "taint"
	StepBudget int
}

// NewConfig builds a Config with the step budget defaulted when zero.
func NewConfig(mode string, stepBudget int) Config {
	if stepBudget <= 0 {
		stepBudget = DefaultStepBudget
	}
	return Config{Mode: mode, StepBudget: stepBudget}
}

// Result is everything a Reporter needs: the stabilized per-point
// states, whether the step budget was exhausted before reaching a
// fixed point, and a run identifier for correlating this analysis run
// across logs (and, when --watch is enabled, liveserver broadcasts).
type Result[V comparable] struct {
	RunID           string
	Seen            map[bytecode.Point]frame.State[V]
	BudgetExhausted bool
	Rounds          int
}

// Progress is what a liveserver watcher is notified with after every
// round, when the caller supplies a non-nil OnRound callback.
type Progress struct {
	RunID    string
	Round    int
	Frontier int
	Seen     int
}

// Run drives the worklist to a fixed point over method, starting from
// a frame whose locals are abstract_of_constant(inputs[i]) at slot i
// (spec.md §4.5 "Initial state"). onRound, if non-nil, is invoked after
// every round with a progress snapshot — the only way this package
// talks to the outside world while iterating, kept separate from the
// core loop per spec.md §5 ("no state is shared outside of the
// worklist loop").
func Run[V comparable](d domain.Domain[V], loader *bytecode.Loader, method bytecode.MethodID, inputs []bytecode.Const, cfg Config, onRound func(Progress)) (*Result[V], error) {
	tf := transfer.New[V](d, loader)

	start := frame.NewFrame[V](bytecode.Point{Method: method, Offset: 0})
	for i, c := range inputs {
		start.Locals[i] = d.ConstOf(c)
	}
	startState := frame.NewState[V](start)
	startPoint := start.PC

	runID := uuid.New().String()

	seen := map[bytecode.Point]frame.State[V]{startPoint: startState}
	frontier := map[bytecode.Point]frame.State[V]{startPoint: startState}

	join := func(a, b V) V { return d.Join(a, b) }

	rounds := 0
	budgetExhausted := false

	for len(frontier) > 0 {
		if rounds >= cfg.StepBudget {
			budgetExhausted = true
			break
		}
		rounds++

		next := make(map[bytecode.Point]frame.State[V])
		for _, state := range frontier {
			edges, err := tf.Step(state)
			if err != nil {
				return nil, err
			}
			for _, e := range edges {
				if existing, ok := next[e.Point]; ok {
					next[e.Point] = frame.JoinStates(existing, e.State, d.Top(), join)
				} else {
					next[e.Point] = e.State
				}
			}
		}

		newFrontier := make(map[bytecode.Point]frame.State[V])
		for p, s := range next {
			if existing, ok := seen[p]; !ok {
				seen[p] = s
				newFrontier[p] = s
			} else {
				merged := frame.JoinStates(existing, s, d.Top(), join)
				if !frame.Equal(merged, existing) {
					seen[p] = merged
					newFrontier[p] = merged
				}
			}
		}
		frontier = newFrontier

		if onRound != nil {
			onRound(Progress{RunID: runID, Round: rounds, Frontier: len(frontier), Seen: len(seen)})
		}
	}

	return &Result[V]{RunID: runID, Seen: seen, BudgetExhausted: budgetExhausted, Rounds: rounds}, nil
}

// ModeError reports an unrecognized analysis-mode selector (spec.md
// §6 "Configuration"): a genuine configuration fault, not a lattice
// status.
func ModeError(mode string) error {
	return errs.New(errs.ConfigurationError, "unknown analysis mode %q: expected \"sign\" or \"taint\"", mode)
}
