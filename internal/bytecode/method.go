// Package bytecode defines the program representation the analyzer
// consumes: method identifiers, the opcode tagged union, and a
// memoizing accessor in front of the (out-of-scope) bytecode loader.
//
// Adapted from sentra's internal/bytecode package (Chunk, OpCode):
// that package accumulates a linear []byte instruction stream with a
// side Constants table; this package instead models each method's
// instructions as a decoded []Opcode sequence, since the analyzer
// never needs to decode operands from a byte stream itself — that is
// the bytecode loader's job, out of scope per the core's contract.
package bytecode

import (
	"strconv"
	"strings"
)

// MethodID identifies a method the way the JVM-class-file dialect
// this analyzer targets does: an accessible class name, a method
// name, a comma-joined parameter type descriptor list, and an
// optional return type.
//
// Params is stored pre-joined, not as a []string, so that MethodID
// stays comparable: every field here is a plain string or int, which
// keeps MethodID (and bytecode.Point, which embeds it) usable as a
// map key and with ==, the same way sentra's own module cache
// (internal/vm/module_loader.go) keys on a string rather than a
// slice-bearing struct.
type MethodID struct {
	Class      string
	Method     string
	Params     string
	ReturnType string // "" means void
}

// ParamCount returns the number of parameter type descriptors in
// Params, the one place callers need a count rather than the rendered
// descriptor list (the argument-popping logic in stepInvoke).
func (m MethodID) ParamCount() int {
	if m.Params == "" {
		return 0
	}
	return strings.Count(m.Params, ",") + 1
}

// String renders a MethodID the way the reporter and the original
// jpamb tooling format program points: Class.method:(params)return.
func (m MethodID) String() string {
	var b strings.Builder
	b.WriteString(m.Class)
	b.WriteByte('.')
	b.WriteString(m.Method)
	b.WriteString(":(")
	b.WriteString(m.Params)
	b.WriteByte(')')
	if m.ReturnType != "" {
		b.WriteString(m.ReturnType)
	}
	return b.String()
}

// Point is a program point: a method identifier paired with an
// instruction offset within that method.
type Point struct {
	Method MethodID
	Offset int
}

func (p Point) String() string {
	return p.Method.String() + ":" + strconv.Itoa(p.Offset)
}
