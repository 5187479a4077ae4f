package transfer

import (
	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/errs"
	"github.com/Edvold/jpamb-analyzer/internal/frame"
	"github.com/Edvold/jpamb-analyzer/internal/lengthabs"
)

func arraySize[V comparable](d domain.Domain[V], v V) lengthabs.Interval {
	if sizer, ok := any(d).(domain.ArraySizer[V]); ok {
		return sizer.ArraySize(v)
	}
	return lengthabs.Top()
}

func indexRange[V comparable](d domain.Domain[V], v V) (lo, hi int64) {
	if ranger, ok := any(d).(domain.IndexRanger[V]); ok {
		return ranger.IndexRange(v)
	}
	return -lengthabs.Unbounded, lengthabs.Unbounded
}

// stepNewArray implements spec.md §4.5 "Array allocation": derive a
// LengthInterval from the popped size, allocate a fresh abstract
// reference id, record it in the heap, and push Top (reference
// identity is not tracked further).
func (tf *Func[V]) stepNewArray(s frame.State[V], op bytecode.Opcode) ([]Edge[V], error) {
	f := s.Frame
	if f.Depth() < 1 {
		return nil, errs.At(f.PC, errs.MalformedBytecode, "new-array: empty stack")
	}
	size, popped := f.Pop()

	length := arraySize(tf.Domain, size)
	ref := frame.NextArrayRef(s.Heap)

	newHeap := make(map[int]lengthabs.Interval, len(s.Heap)+1)
	for k, v := range s.Heap {
		newHeap[k] = v
	}
	newHeap[ref] = length

	nf := popped.Clone()
	nf = nf.Push(tf.Domain.Top())
	nf.PC = f.Advance()
	return []Edge[V]{ok(nf, newHeap)}, nil
}

// stepArrayLoad implements spec.md §4.5 "Array load / store": the
// analyzer never tracks which heap entry a reference points to, so
// every load/store consults LengthInterval.Top() rather than a
// specific heap entry (no alias tracking, per spec.md §9 Open
// Question). Both an ok and an out-of-bounds edge may fire.
func (tf *Func[V]) stepArrayLoad(s frame.State[V], op bytecode.Opcode) ([]Edge[V], error) {
	f := s.Frame
	if f.Depth() < 2 {
		return nil, errs.At(f.PC, errs.MalformedBytecode, "array-load: fewer than two operands")
	}
	idx, f1 := f.Pop()
	_, f2 := f1.Pop() // array reference; identity not tracked

	idxLo, idxHi := indexRange(tf.Domain, idx)
	mayIn, mayOOB := lengthabs.Top().MayContainIndex(idxLo, idxHi)

	var edges []Edge[V]
	if mayIn {
		nf := f2.Clone()
		nf = nf.Push(tf.Domain.Top())
		nf.PC = f.Advance()
		edges = append(edges, ok(nf, s.Heap))
	}
	if mayOOB {
		nf := f2.Clone()
		nf.PC = f.Advance()
		edges = append(edges, errAt(nf, s.Heap, frame.OutOfBounds))
	}
	return edges, nil
}

// stepArrayStore mirrors stepArrayLoad but pops a stored value too and
// never pushes a result.
func (tf *Func[V]) stepArrayStore(s frame.State[V], op bytecode.Opcode) ([]Edge[V], error) {
	f := s.Frame
	if f.Depth() < 3 {
		return nil, errs.At(f.PC, errs.MalformedBytecode, "array-store: fewer than three operands")
	}
	_, f1 := f.Pop() // value
	idx, f2 := f1.Pop()
	_, f3 := f2.Pop() // array reference

	idxLo, idxHi := indexRange(tf.Domain, idx)
	mayIn, mayOOB := lengthabs.Top().MayContainIndex(idxLo, idxHi)

	var edges []Edge[V]
	if mayIn {
		nf := f3.Clone()
		nf.PC = f.Advance()
		edges = append(edges, ok(nf, s.Heap))
	}
	if mayOOB {
		nf := f3.Clone()
		nf.PC = f.Advance()
		edges = append(edges, errAt(nf, s.Heap, frame.OutOfBounds))
	}
	return edges, nil
}
