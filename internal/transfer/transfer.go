// Package transfer implements the per-opcode abstract-step function
// (spec.md §4.5), parameterized over the value domain. This is the
// core of the analyzer: every instruction maps to zero or more
// (successor offset, successor state) edges.
//
// Structurally this is the direct descendant of the giant switch in
// sentra's EnhancedVM.run (internal/vm/vm.go): the same "one case per
// opcode, pop operands, compute, push result, advance ip" shape, but
// each case computes an abstract transfer instead of a concrete one,
// and may emit more than one successor.
package transfer

import (
	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/errs"
	"github.com/Edvold/jpamb-analyzer/internal/frame"
	"github.com/Edvold/jpamb-analyzer/internal/lengthabs"
)

// Edge is one (successor program point, successor state) pair.
type Edge[V comparable] struct {
	Point bytecode.Point
	State frame.State[V]
}

// Func is the transfer function for one value domain.
type Func[V comparable] struct {
	Domain domain.Domain[V]
	Loader *bytecode.Loader
}

// New builds a transfer function over d, reading opcodes through loader.
func New[V comparable](d domain.Domain[V], loader *bytecode.Loader) *Func[V] {
	return &Func[V]{Domain: d, Loader: loader}
}

func ok[V comparable](nf frame.Frame[V], heap map[int]lengthabs.Interval) Edge[V] {
	return Edge[V]{Point: nf.PC, State: frame.State[V]{Frame: nf, Status: frame.OK}.WithHeap(heap)}
}

func errAt[V comparable](nf frame.Frame[V], heap map[int]lengthabs.Interval, status frame.Status) Edge[V] {
	return Edge[V]{Point: nf.PC, State: frame.State[V]{Frame: nf, Status: status}.WithHeap(heap)}
}

// Step computes the successor edges of one (program point, state)
// pair. A state whose Status is not OK is terminal and has no
// successors. Errors returned here are genuine implementation faults
// (spec.md §7): a missing operand on the stack, an unknown binary
// operator, or an offset or method the loader cannot resolve — never
// a lattice status. An unknown opcode kind is widened, not an error.
func (tf *Func[V]) Step(s frame.State[V]) ([]Edge[V], error) {
	if s.Status != frame.OK {
		return nil, nil
	}

	op, err := tf.Loader.At(s.Frame.PC.Method, s.Frame.PC.Offset)
	if err != nil {
		return nil, err
	}

	d := tf.Domain
	f := s.Frame

	switch op.Kind {
	case bytecode.Push:
		nf := f.Clone()
		nf = nf.Push(d.ConstOf(op.Value))
		nf.PC = f.Advance()
		return []Edge[V]{ok(nf, s.Heap)}, nil

	case bytecode.Load:
		nf := f.Clone()
		v, present := nf.Locals[op.Local]
		if !present {
			v = d.Top()
		}
		nf = nf.Push(v)
		nf.PC = f.Advance()
		return []Edge[V]{ok(nf, s.Heap)}, nil

	case bytecode.Store:
		if f.Depth() < 1 {
			return nil, errs.At(f.PC, errs.MalformedBytecode, "store: empty stack")
		}
		nf := f.Clone()
		v, nf2 := nf.Pop()
		nf2.Locals[op.Local] = v
		nf2.PC = f.Advance()
		return []Edge[V]{ok(nf2, s.Heap)}, nil

	case bytecode.Dup:
		if f.Depth() < 1 {
			return nil, errs.At(f.PC, errs.MalformedBytecode, "dup: empty stack")
		}
		nf := f.Clone()
		nf = nf.Push(nf.Peek())
		nf.PC = f.Advance()
		return []Edge[V]{ok(nf, s.Heap)}, nil

	case bytecode.GetField:
		nf := f.Clone()
		v := d.Top()
		if op.Field == "assertionsDisabled" || op.Field == "$assertionsDisabled" {
			if ad, has := any(d).(domain.AssertionsDisabledField[V]); has {
				v = ad.AssertionsDisabledValue()
			}
		}
		nf = nf.Push(v)
		nf.PC = f.Advance()
		return []Edge[V]{ok(nf, s.Heap)}, nil

	case bytecode.Binary:
		return tf.stepBinary(s, op)

	case bytecode.IfZero:
		return tf.stepIfZero(s, op)

	case bytecode.If:
		if f.Depth() < 2 {
			return nil, errs.At(f.PC, errs.MalformedBytecode, "if: fewer than two operands")
		}
		nfJump := f.Clone()
		nfJump.PC = f.Jump(op.Target)
		nfFall := f.Clone()
		nfFall.PC = f.Advance()
		return []Edge[V]{ok(nfJump, s.Heap), ok(nfFall, s.Heap)}, nil

	case bytecode.Goto:
		nf := f.Clone()
		nf.PC = f.Jump(op.Target)
		return []Edge[V]{ok(nf, s.Heap)}, nil

	case bytecode.NewArray:
		return tf.stepNewArray(s, op)

	case bytecode.ArrayLength:
		if f.Depth() < 1 {
			return nil, errs.At(f.PC, errs.MalformedBytecode, "array-length: empty stack")
		}
		nf := f.Clone()
		_, nf2 := nf.Pop()
		nf2 = nf2.Push(d.Top())
		nf2.PC = f.Advance()
		return []Edge[V]{ok(nf2, s.Heap)}, nil

	case bytecode.ArrayLoad:
		return tf.stepArrayLoad(s, op)

	case bytecode.ArrayStore:
		return tf.stepArrayStore(s, op)

	case bytecode.InvokeVirtual, bytecode.InvokeStatic, bytecode.InvokeSpecial, bytecode.InvokeDynamic:
		return tf.stepInvoke(s, op)

	case bytecode.Return:
		return nil, nil

	case bytecode.Throw:
		// Exception-table handling is out of scope (spec.md §1
		// Non-goal), and throw carries no class payload (spec.md §6).
		// Within this bytecode dialect athrow is reachable only from a
		// compiled assert statement, so every throw is treated as the
		// terminal it always denotes in practice: assertion error.
		nf := f.Clone()
		nf.PC = f.Advance()
		return []Edge[V]{errAt(nf, s.Heap, frame.AssertionError)}, nil

	case bytecode.New:
		nf := f.Clone()
		nf = nf.Push(d.Top())
		nf.PC = f.Advance()
		return []Edge[V]{ok(nf, s.Heap)}, nil

	case bytecode.Cast:
		if f.Depth() < 1 {
			return nil, errs.At(f.PC, errs.MalformedBytecode, "cast: empty stack")
		}
		nf := f.Clone()
		_, nf2 := nf.Pop()
		nf2 = nf2.Push(d.Top())
		nf2.PC = f.Advance()
		return []Edge[V]{ok(nf2, s.Heap)}, nil

	case bytecode.Incr:
		nf := f.Clone()
		cur, present := nf.Locals[op.Local]
		if !present {
			cur = d.Top()
		}
		nf.Locals[op.Local] = d.Add(cur, d.ConstOf(bytecode.IntLit(op.Amount)))
		nf.PC = f.Advance()
		return []Edge[V]{ok(nf, s.Heap)}, nil

	default:
		// Deliberate widening (spec.md §4.5 "Unmatched opcodes"), not a
		// failure: advance and leave the stack unchanged. Every Kind
		// constant is handled by one of the cases above, so only a Kind
		// value outside that set reaches here.
		nf := f.Clone()
		nf.PC = f.Advance()
		return []Edge[V]{ok(nf, s.Heap)}, nil
	}
}
