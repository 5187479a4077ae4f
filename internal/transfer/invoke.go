package transfer

import (
	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/errs"
	"github.com/Edvold/jpamb-analyzer/internal/frame"
)

// stepInvoke implements spec.md §4.5 "Method invocation". Inter-
// procedural analysis is out of scope (spec.md §1 Non-goal): every
// invocation is approximated at its call site. A domain that
// implements domain.InvokeHandler (taint) gets to decide the result
// and whether a SQL-injection edge fires; any other domain (sign)
// falls through to the default: pop the arguments, push Top if the
// method returns a value.
func (tf *Func[V]) stepInvoke(s frame.State[V], op bytecode.Opcode) ([]Edge[V], error) {
	f := s.Frame
	argCount := op.Method.ParamCount()
	popReceiver := op.Kind == bytecode.InvokeVirtual || op.Kind == bytecode.InvokeSpecial
	total := argCount
	if popReceiver {
		total++
	}
	if f.Depth() < total {
		return nil, errs.At(f.PC, errs.MalformedBytecode, "invoke %s: fewer than %d operands on stack", op.Method, total)
	}

	args := make([]V, argCount)
	nf := f.Clone()
	for i := argCount - 1; i >= 0; i-- {
		args[i], nf = nf.Pop()
	}
	if popReceiver {
		_, nf = nf.Pop()
	}

	returns := op.Method.ReturnType != ""

	if handler, has := any(tf.Domain).(domain.InvokeHandler[V]); has {
		result, sqlInjection := handler.Invoke(domain.InvokeArgs[V]{
			Method:  op.Method,
			Kind:    op.Kind,
			Args:    args,
			Returns: returns,
		})

		if sqlInjection {
			errNf := nf.Clone()
			errNf.PC = f.Advance()
			return []Edge[V]{errAt(errNf, s.Heap, frame.SQLInjection)}, nil
		}

		okNf := nf.Clone()
		if returns {
			okNf = okNf.Push(result)
		}
		okNf.PC = f.Advance()
		return []Edge[V]{ok(okNf, s.Heap)}, nil
	}

	okNf := nf.Clone()
	if returns {
		okNf = okNf.Push(tf.Domain.Top())
	}
	okNf.PC = f.Advance()
	return []Edge[V]{ok(okNf, s.Heap)}, nil
}
