package frame

import (
	"testing"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/sign"
)

func pt(offset int) bytecode.Point {
	return bytecode.Point{Method: bytecode.MethodID{Class: "C", Method: "f"}, Offset: offset}
}

func TestCloneIsIndependent(t *testing.T) {
	f := NewFrame[sign.Set](pt(0))
	f.Locals[0] = sign.Pos
	f = f.Push(sign.Zero)

	clone := f.Clone()
	clone.Locals[0] = sign.Neg
	clone.Stack[0] = sign.Neg

	if f.Locals[0] != sign.Pos {
		t.Fatal("mutating clone's locals affected original")
	}
	if f.Stack[0] != sign.Zero {
		t.Fatal("mutating clone's stack affected original")
	}
}

func TestJoinFramesWidensOnDepthMismatch(t *testing.T) {
	a := NewFrame[sign.Set](pt(3)).Push(sign.Pos)
	b := NewFrame[sign.Set](pt(3)).Push(sign.Pos).Push(sign.Neg)

	joined := JoinFrames(a, b, sign.Top, func(x, y sign.Set) sign.Set { return x.Join(y) })
	if joined.Depth() != 2 {
		t.Fatalf("expected widened depth 2, got %d", joined.Depth())
	}
	for i, v := range joined.Stack {
		if v != sign.Top {
			t.Fatalf("stack[%d] = %v, want Top after depth mismatch widening", i, v)
		}
	}
}

func TestJoinFramesElementwiseWhenDepthsMatch(t *testing.T) {
	a := NewFrame[sign.Set](pt(3)).Push(sign.Pos)
	b := NewFrame[sign.Set](pt(3)).Push(sign.Neg)
	joined := JoinFrames(a, b, sign.Top, func(x, y sign.Set) sign.Set { return x.Join(y) })
	if joined.Stack[0] != sign.Pos.Join(sign.Neg) {
		t.Fatalf("expected elementwise join, got %v", joined.Stack[0])
	}
}

func TestJoinStatesStatusNonOkWins(t *testing.T) {
	a := NewState[sign.Set](NewFrame[sign.Set](pt(0)))
	b := NewState[sign.Set](NewFrame[sign.Set](pt(0))).WithStatus(DivideByZero)

	joined := JoinStates(a, b, sign.Top, func(x, y sign.Set) sign.Set { return x.Join(y) })
	if joined.Status != DivideByZero {
		t.Fatalf("expected non-ok status to win, got %v", joined.Status)
	}

	joined2 := JoinStates(b, a, sign.Top, func(x, y sign.Set) sign.Set { return x.Join(y) })
	if joined2.Status != DivideByZero {
		t.Fatalf("status must be sticky regardless of join order, got %v", joined2.Status)
	}
}

func TestJoinHeapPointwise(t *testing.T) {
	a := map[int]Interval{0: {Lo: 0, Hi: 2}}
	b := map[int]Interval{0: {Lo: 1, Hi: 5}, 1: {Lo: 0, Hi: 0}}
	got := JoinHeap(a, b)
	if got[0] != (Interval{Lo: 0, Hi: 5}) {
		t.Fatalf("heap[0] = %v, want [0,5]", got[0])
	}
	if got[1] != (Interval{Lo: 0, Hi: 0}) {
		t.Fatalf("heap[1] carried over verbatim, got %v", got[1])
	}
}

func TestEqualDetectsAllFields(t *testing.T) {
	base := NewState[sign.Set](NewFrame[sign.Set](pt(0)).Push(sign.Pos))
	same := NewState[sign.Set](NewFrame[sign.Set](pt(0)).Push(sign.Pos))
	if !Equal(base, same) {
		t.Fatal("expected equal states to compare equal")
	}
	differentStatus := same.WithStatus(OutOfBounds)
	if Equal(base, differentStatus) {
		t.Fatal("expected differing status to compare unequal")
	}
}
