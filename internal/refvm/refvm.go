// Package refvm is a small concrete interpreter over the same
// bytecode.Opcode stream the abstract interpreter consumes. It is the
// "concrete interpreter" spec.md §1 scopes out of the core and names
// only as a reference oracle: tests run a method concretely here and
// check that the concrete run's status (ok, divide by zero, ...) is
// carried by some state the sign-domain analysis computed for the same
// method and input.
//
// Grounded on sentra's EnhancedVM dispatch loop (internal/vm/vm.go):
// the same push/pop/peek operand stack and a single Run loop switching
// on opcode kind, trimmed to the handful of opcodes the abstract core
// also understands and stripped of everything EnhancedVM does beyond
// that (modules, goroutines, GC pressure, debug hooks).
package refvm

import (
	"fmt"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
)

// Status mirrors frame.Status without importing it, keeping refvm
// independent of the abstract-interpreter packages it cross-checks.
type Status string

const (
	OK             Status = "ok"
	DivideByZero   Status = "divide by zero"
	OutOfBounds    Status = "out of bounds"
	AssertionError Status = "assertion error"
)

// Outcome is a concrete run's result: either a returned value, or a
// terminal status.
type Outcome struct {
	Status Status
	Value  int64
	HasRet bool
}

// VM runs one method concretely to completion or a terminal status.
type VM struct {
	loader  *bytecode.Loader
	method  bytecode.MethodID
	locals  map[int]int64
	stack   []int64
	heap    map[int][]int64
	nextRef int
	pc      int
}

// New builds a VM for method, with locals[i] = inputs[i].
func New(loader *bytecode.Loader, method bytecode.MethodID, inputs []int64) *VM {
	locals := make(map[int]int64, len(inputs))
	for i, v := range inputs {
		locals[i] = v
	}
	return &VM{loader: loader, method: method, locals: locals, heap: make(map[int][]int64)}
}

func (vm *VM) push(v int64) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() (int64, error) {
	if len(vm.stack) == 0 {
		return 0, fmt.Errorf("refvm: pop on empty stack at offset %d", vm.pc)
	}
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v, nil
}

func constValue(c bytecode.Const) int64 { return c.Int }

// Run executes method to completion. It supports exactly the opcode
// subset spec.md §4.5 gives sign-mode semantics for; anything else is
// a test-fixture bug, reported as an error rather than silently
// widened (unlike the abstract interpreter, a concrete oracle has no
// sound default for an opcode it doesn't understand).
func (vm *VM) Run() (Outcome, error) {
	for {
		op, err := vm.loader.At(vm.method, vm.pc)
		if err != nil {
			return Outcome{}, err
		}

		switch op.Kind {
		case bytecode.Push:
			vm.push(constValue(op.Value))
			vm.pc++

		case bytecode.Load:
			vm.push(vm.locals[op.Local])
			vm.pc++

		case bytecode.Store:
			v, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			vm.locals[op.Local] = v
			vm.pc++

		case bytecode.Dup:
			if len(vm.stack) == 0 {
				return Outcome{}, fmt.Errorf("refvm: dup on empty stack at offset %d", vm.pc)
			}
			vm.push(vm.stack[len(vm.stack)-1])
			vm.pc++

		case bytecode.Binary:
			b, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			a, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			switch op.Op {
			case bytecode.Add:
				vm.push(a + b)
			case bytecode.Sub:
				vm.push(a - b)
			case bytecode.Mul:
				vm.push(a * b)
			case bytecode.Div:
				if b == 0 {
					return Outcome{Status: DivideByZero}, nil
				}
				vm.push(a / b)
			case bytecode.Rem:
				if b == 0 {
					return Outcome{Status: DivideByZero}, nil
				}
				vm.push(a % b)
			}
			vm.pc++

		case bytecode.IfZero:
			v, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			zero := v == 0
			jump := (op.Cond == bytecode.Eq && zero) || (op.Cond == bytecode.Ne && !zero)
			if jump {
				vm.pc = op.Target
			} else {
				vm.pc++
			}

		case bytecode.Goto:
			vm.pc = op.Target

		case bytecode.NewArray:
			size, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			if size < 0 {
				return Outcome{}, fmt.Errorf("refvm: negative array size %d at offset %d", size, vm.pc)
			}
			ref := vm.nextRef
			vm.nextRef++
			vm.heap[ref] = make([]int64, size)
			vm.push(int64(ref))
			vm.pc++

		case bytecode.ArrayLoad:
			idx, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			ref, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			arr := vm.heap[int(ref)]
			if idx < 0 || idx >= int64(len(arr)) {
				return Outcome{Status: OutOfBounds}, nil
			}
			vm.push(arr[idx])
			vm.pc++

		case bytecode.ArrayStore:
			val, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			idx, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			ref, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			arr := vm.heap[int(ref)]
			if idx < 0 || idx >= int64(len(arr)) {
				return Outcome{Status: OutOfBounds}, nil
			}
			arr[idx] = val
			vm.pc++

		case bytecode.Throw:
			return Outcome{Status: AssertionError}, nil

		case bytecode.Incr:
			vm.locals[op.Local] += op.Amount
			vm.pc++

		case bytecode.Return:
			if len(vm.stack) == 0 {
				return Outcome{Status: OK}, nil
			}
			v, err := vm.pop()
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Status: OK, Value: v, HasRet: true}, nil

		default:
			return Outcome{}, fmt.Errorf("refvm: opcode %s not supported by the reference oracle", op.Kind)
		}
	}
}
