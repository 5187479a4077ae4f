package transfer

import (
	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/errs"
	"github.com/Edvold/jpamb-analyzer/internal/frame"
)

// stepBinary implements add/sub/mul/div/rem (spec.md §4.5 "Integer
// arithmetic", "Integer division and remainder"). Add/Sub/Mul are
// sound-under-bottom: a Bot operand simply produces no edge, since
// Bot means "no concrete value reaches here" and a sum of nothing is
// nothing. Div/Rem may additionally emit a divide-by-zero terminal
// edge alongside the ok edge.
func (tf *Func[V]) stepBinary(s frame.State[V], op bytecode.Opcode) ([]Edge[V], error) {
	f := s.Frame
	if f.Depth() < 2 {
		return nil, errs.At(f.PC, errs.MalformedBytecode, "binary %s: fewer than two operands", op.Op)
	}
	d := tf.Domain

	b, f1 := f.Pop()
	a, f2 := f1.Pop()

	switch op.Op {
	case bytecode.Add, bytecode.Sub, bytecode.Mul:
		if a == d.Bottom() || b == d.Bottom() {
			return nil, nil
		}
		var result V
		switch op.Op {
		case bytecode.Add:
			result = d.Add(a, b)
		case bytecode.Sub:
			result = d.Sub(a, b)
		default:
			result = d.Mul(a, b)
		}
		nf := f2.Clone()
		nf = nf.Push(result)
		nf.PC = f.Advance()
		return []Edge[V]{ok(nf, s.Heap)}, nil

	case bytecode.Div, bytecode.Rem:
		var result V
		var divByZero bool
		if op.Op == bytecode.Div {
			result, divByZero = d.Div(a, b)
		} else {
			result, divByZero = d.Rem(a, b)
		}

		var edges []Edge[V]
		if result != d.Bottom() {
			nf := f2.Clone()
			nf = nf.Push(result)
			nf.PC = f.Advance()
			edges = append(edges, ok(nf, s.Heap))
		}
		if divByZero {
			nf := f2.Clone()
			nf.PC = f.Advance()
			edges = append(edges, errAt(nf, s.Heap, frame.DivideByZero))
		}
		return edges, nil

	default:
		return nil, errs.At(f.PC, errs.MalformedBytecode, "binary: unknown operator")
	}
}

// stepIfZero implements spec.md §4.5 "Branch on zero". eq/ne are
// resolved precisely when the domain implements ZeroTester (sign
// mode); any other comparator, or a domain without ZeroTester (taint
// mode), emits both successors.
func (tf *Func[V]) stepIfZero(s frame.State[V], op bytecode.Opcode) ([]Edge[V], error) {
	f := s.Frame
	if f.Depth() < 1 {
		return nil, errs.At(f.PC, errs.MalformedBytecode, "if-zero: empty stack")
	}
	v, popped := f.Pop()

	zt, precise := any(tf.Domain).(domain.ZeroTester[V])
	if precise && (op.Cond == bytecode.Eq || op.Cond == bytecode.Ne) {
		var edges []Edge[V]
		jumpIf, fallIf := zt.MayBeZero, zt.MayBeNonzero
		if op.Cond == bytecode.Ne {
			jumpIf, fallIf = zt.MayBeNonzero, zt.MayBeZero
		}
		if jumpIf(v) {
			nf := popped.Clone()
			nf.PC = f.Jump(op.Target)
			edges = append(edges, ok(nf, s.Heap))
		}
		if fallIf(v) {
			nf := popped.Clone()
			nf.PC = f.Advance()
			edges = append(edges, ok(nf, s.Heap))
		}
		return edges, nil
	}

	nfJump := popped.Clone()
	nfJump.PC = f.Jump(op.Target)
	nfFall := popped.Clone()
	nfFall.PC = f.Advance()
	return []Edge[V]{ok(nfJump, s.Heap), ok(nfFall, s.Heap)}, nil
}
