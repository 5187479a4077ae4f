package bytecode

import (
	"fmt"
	"sync"
)

// Source supplies the ordered opcode sequence for a method. This is
// the out-of-scope "bytecode loader" collaborator from spec.md §1:
// the core never constructs one itself, only consumes what it
// returns.
type Source func(MethodID) ([]Opcode, error)

// Loader is a lazily-populated, memoizing cache in front of a Source,
// matching spec.md §4.5/§5: "a lazily-populated mapping from method
// identifier to opcode list... safe to treat as read-only once
// populated." Adapted from the cache/mutex shape of sentra's
// internal/vm.ModuleLoader.
type Loader struct {
	source Source

	mu    sync.RWMutex
	cache map[MethodID][]Opcode
}

// NewLoader wraps source with a memoizing cache.
func NewLoader(source Source) *Loader {
	return &Loader{
		source: source,
		cache:  make(map[MethodID][]Opcode),
	}
}

// Opcodes returns the decoded instruction list for m, populating the
// cache on first access.
func (l *Loader) Opcodes(m MethodID) ([]Opcode, error) {
	l.mu.RLock()
	if ops, ok := l.cache[m]; ok {
		l.mu.RUnlock()
		return ops, nil
	}
	l.mu.RUnlock()

	ops, err := l.source(m)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[m] = ops
	l.mu.Unlock()
	return ops, nil
}

// At returns opcodes(method)[offset], the only access pattern the
// transfer function needs. A request for an offset outside the method
// is a genuine implementation fault, not an analysis result (spec.md
// §7); the opcode's kind is not checked here.
func (l *Loader) At(m MethodID, offset int) (Opcode, error) {
	ops, err := l.Opcodes(m)
	if err != nil {
		return Opcode{}, err
	}
	if offset < 0 || offset >= len(ops) {
		return Opcode{}, fmt.Errorf("bytecode: offset %d out of range for %s (%d instructions)", offset, m, len(ops))
	}
	return ops[offset], nil
}

// InMemory returns a Source backed by a fixed map, for tests and for
// the CLI's JSON-fixture mode.
func InMemory(methods map[MethodID][]Opcode) Source {
	return func(m MethodID) ([]Opcode, error) {
		ops, ok := methods[m]
		if !ok {
			return nil, fmt.Errorf("bytecode: unknown method %s", m)
		}
		return ops, nil
	}
}
