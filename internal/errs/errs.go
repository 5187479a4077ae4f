// Package errs implements the diagnostic error type for genuine
// implementation faults: unimplemented opcode kinds, malformed
// bytecode, missing input slots. Per spec.md §7 these abort analysis
// once and are reported, never retried — they are distinct from
// lattice statuses (divide-by-zero, out-of-bounds, ...), which are
// first-class analysis results, not Go errors.
//
// Adapted from sentra's internal/errors.SentraError: same multi-line
// rendering built through strings.Builder, same split between a
// classifying Kind and a source-location-shaped anchor — here a
// bytecode.Point instead of a file/line/column.
package errs

import (
	"fmt"
	"strings"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
)

// Kind classifies a Fault, mirroring sentra's ErrorType.
type Kind string

const (
	UnimplementedOpcode Kind = "UnimplementedOpcode"
	MalformedBytecode   Kind = "MalformedBytecode"
	MissingInputSlot    Kind = "MissingInputSlot"
	ConfigurationError  Kind = "ConfigurationError"
)

// Fault is a genuine implementation fault that aborts analysis.
type Fault struct {
	Kind    Kind
	Message string
	At      bytecode.Point // zero value if not point-specific
}

func (f *Fault) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", f.Kind, f.Message)
	if f.At.Method.Class != "" {
		fmt.Fprintf(&b, "\n  at %s", f.At)
	}
	return b.String()
}

// New builds a non-point-specific fault, e.g. a configuration error
// discovered before any method is analyzed.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At builds a fault anchored to a program point.
func At(point bytecode.Point, kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...), At: point}
}
