package frame

// JoinValue is the value lattice's join operator, threaded in rather
// than imported from internal/domain to keep this package dependency-
// free of any particular domain (spec.md §9: LengthInterval
// participates only in the heap, independent of the stack/local value
// domain — frames are likewise domain-agnostic here).
type JoinValue[V comparable] func(a, b V) V

// JoinFrames merges two frames at the same program point (spec.md
// §4.5 "Frame join"). Locals are merged per-slot, a missing slot
// acting as bottom (so it simply adopts the other side's value).
// Stacks of equal depth are joined elementwise; stacks of differing
// depth are widened to all-Top at the larger depth, a deliberate,
// sound precision loss.
func JoinFrames[V comparable](a, b Frame[V], top V, join JoinValue[V]) Frame[V] {
	locals := make(map[int]V, len(a.Locals)+len(b.Locals))
	for k, v := range a.Locals {
		locals[k] = v
	}
	for k, v := range b.Locals {
		if existing, ok := locals[k]; ok {
			locals[k] = join(existing, v)
		} else {
			locals[k] = v
		}
	}

	var stack []V
	if len(a.Stack) != len(b.Stack) {
		depth := len(a.Stack)
		if len(b.Stack) > depth {
			depth = len(b.Stack)
		}
		stack = make([]V, depth)
		for i := range stack {
			stack[i] = top
		}
	} else {
		stack = make([]V, len(a.Stack))
		for i := range stack {
			stack[i] = join(a.Stack[i], b.Stack[i])
		}
	}

	return Frame[V]{Locals: locals, Stack: stack, PC: a.PC}
}

// JoinHeap merges two heap mappings pointwise with Interval.Join;
// entries present on only one side carry over verbatim.
func JoinHeap(a, b map[int]Interval) map[int]Interval {
	out := make(map[int]Interval, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if existing, ok := out[k]; ok {
			out[k] = existing.Join(v)
		} else {
			out[k] = v
		}
	}
	return out
}

// JoinStates merges two states reaching the same program point
// (spec.md "State-point merge"): frame-join, status preserved
// non-ok-wins, heap joined pointwise.
func JoinStates[V comparable](a, b State[V], top V, join JoinValue[V]) State[V] {
	mergedFrame := JoinFrames(a.Frame, b.Frame, top, join)
	status := a.Status
	if status == OK {
		status = b.Status
	}
	return State[V]{
		Frame:  mergedFrame,
		Status: status,
		Heap:   JoinHeap(a.Heap, b.Heap),
	}
}

// Equal reports structural equality: program counter, locals, stack,
// status, and heap mappings all equal. This is the worklist's
// fixpoint test (spec.md "State equality").
func Equal[V comparable](a, b State[V]) bool {
	if a.Status != b.Status {
		return false
	}
	if a.Frame.PC != b.Frame.PC {
		return false
	}
	if len(a.Frame.Stack) != len(b.Frame.Stack) {
		return false
	}
	for i := range a.Frame.Stack {
		if a.Frame.Stack[i] != b.Frame.Stack[i] {
			return false
		}
	}
	if len(a.Frame.Locals) != len(b.Frame.Locals) {
		return false
	}
	for k, v := range a.Frame.Locals {
		if bv, ok := b.Frame.Locals[k]; !ok || bv != v {
			return false
		}
	}
	if len(a.Heap) != len(b.Heap) {
		return false
	}
	for k, v := range a.Heap {
		if bv, ok := b.Heap[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
