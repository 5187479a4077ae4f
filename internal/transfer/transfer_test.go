package transfer

import (
	"testing"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/frame"
	"github.com/Edvold/jpamb-analyzer/internal/policy"
	"github.com/Edvold/jpamb-analyzer/internal/sign"
	"github.com/Edvold/jpamb-analyzer/internal/taint"
)

func testMethod(name string) bytecode.MethodID {
	return bytecode.MethodID{Class: "Test", Method: name, ReturnType: "I"}
}

func pt(offset int) bytecode.Point {
	return bytecode.Point{Method: testMethod("m"), Offset: offset}
}

func newSignState(ops []bytecode.Opcode) (frame.State[sign.Set], *Func[sign.Set]) {
	loader := bytecode.NewLoader(bytecode.InMemory(map[bytecode.MethodID][]bytecode.Opcode{
		testMethod("m"): ops,
	}))
	tf := New[sign.Set](domain.Sign{}, loader)
	return frame.NewState[sign.Set](frame.NewFrame[sign.Set](pt(0))), tf
}

func TestStepPushLoadStore(t *testing.T) {
	ops := []bytecode.Opcode{
		{Kind: bytecode.Push, Value: bytecode.IntLit(5)},
		{Kind: bytecode.Store, Local: 0},
		{Kind: bytecode.Load, Local: 0},
	}
	s, tf := newSignState(ops)

	edges, err := tf.Step(s)
	if err != nil || len(edges) != 1 {
		t.Fatalf("push: got %v, %v", edges, err)
	}
	if edges[0].State.Frame.Peek() != sign.Of(5) {
		t.Fatalf("expected sign of 5 on stack")
	}

	s2 := edges[0].State
	s2.Frame.PC = pt(1)
	edges2, err := tf.Step(s2)
	if err != nil || len(edges2) != 1 {
		t.Fatalf("store: got %v, %v", edges2, err)
	}
	if edges2[0].State.Frame.Depth() != 0 {
		t.Fatalf("expected empty stack after store")
	}
	if edges2[0].State.Frame.Locals[0] != sign.Of(5) {
		t.Fatalf("expected local 0 to hold sign of 5")
	}

	s3 := edges2[0].State
	s3.Frame.PC = pt(2)
	edges3, err := tf.Step(s3)
	if err != nil || len(edges3) != 1 {
		t.Fatalf("load: got %v, %v", edges3, err)
	}
	if edges3[0].State.Frame.Peek() != sign.Of(5) {
		t.Fatalf("expected sign of 5 reloaded")
	}
}

func TestStepBinaryDivByZeroBothEdges(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.Binary, Op: bytecode.Div}}
	s, tf := newSignState(ops)
	s.Frame = s.Frame.Push(sign.Of(10)) // dividend
	s.Frame = s.Frame.Push(sign.Top)    // divisor, pushed last so it pops first

	edges, err := tf.Step(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected ok + divide-by-zero edges, got %d", len(edges))
	}
	sawOK, sawDZ := false, false
	for _, e := range edges {
		switch e.State.Status {
		case frame.OK:
			sawOK = true
		case frame.DivideByZero:
			sawDZ = true
		}
	}
	if !sawOK || !sawDZ {
		t.Fatalf("expected both ok and divide-by-zero, got %+v", edges)
	}
}

func TestStepBinaryBottomOperandProducesNoEdge(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.Binary, Op: bytecode.Add}}
	s, tf := newSignState(ops)
	s.Frame = s.Frame.Push(sign.Bot)
	s.Frame = s.Frame.Push(sign.Of(1))

	edges, err := tf.Step(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 0 {
		t.Fatalf("expected no edges for a Bot operand, got %+v", edges)
	}
}

func TestStepIfZeroPreciseOnSignDomain(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.IfZero, Cond: bytecode.Eq, Target: 9}}
	s, tf := newSignState(ops)
	s.Frame = s.Frame.Push(sign.Pos)

	edges, err := tf.Step(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected exactly one fallthrough edge for a known-positive value, got %d", len(edges))
	}
	if edges[0].State.Frame.PC.Offset != 1 {
		t.Fatalf("expected fallthrough, got offset %d", edges[0].State.Frame.PC.Offset)
	}
}

func TestStepIfZeroImpreciseOnNonEqNe(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.IfZero, Cond: bytecode.Lt, Target: 9}}
	s, tf := newSignState(ops)
	s.Frame = s.Frame.Push(sign.Pos)

	edges, err := tf.Step(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected both successors for an unresolved comparator, got %d", len(edges))
	}
}

func TestStepNewArrayAndLoadOutOfBounds(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.NewArray}}
	s, tf := newSignState(ops)
	s.Frame = s.Frame.Push(sign.Of(3))

	edges, err := tf.Step(s)
	if err != nil || len(edges) != 1 {
		t.Fatalf("new-array: got %v, %v", edges, err)
	}
	if len(edges[0].State.Heap) != 1 {
		t.Fatalf("expected one heap entry after allocation")
	}

	loadOps := []bytecode.Opcode{{Kind: bytecode.ArrayLoad}}
	loader := bytecode.NewLoader(bytecode.InMemory(map[bytecode.MethodID][]bytecode.Opcode{
		testMethod("m"): loadOps,
	}))
	tf2 := New[sign.Set](domain.Sign{}, loader)

	s2 := edges[0].State
	s2.Frame.PC = pt(0)
	s2.Frame = s2.Frame.Push(sign.Top) // array ref, untracked
	s2.Frame = s2.Frame.Push(sign.Neg) // index, always negative

	edges2, err := tf2.Step(s2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges2) != 1 || edges2[0].State.Status != frame.OutOfBounds {
		t.Fatalf("expected a single out-of-bounds edge for a negative index, got %+v", edges2)
	}
}

func TestStepInvokeSignModeDefault(t *testing.T) {
	m := bytecode.MethodID{Class: "java.lang.Math", Method: "abs", Params: "I", ReturnType: "I"}
	ops := []bytecode.Opcode{{Kind: bytecode.InvokeStatic, Method: m}}
	s, tf := newSignState(ops)
	s.Frame = s.Frame.Push(sign.Neg)

	edges, err := tf.Step(s)
	if err != nil || len(edges) != 1 {
		t.Fatalf("invoke: got %v, %v", edges, err)
	}
	if edges[0].State.Frame.Peek() != sign.Top {
		t.Fatalf("expected Top pushed as the unmodeled return value")
	}
}

func TestStepInvokeTaintSinkFlagsSQLInjection(t *testing.T) {
	pol := policy.Default()
	d := domain.Taint{Policy: pol}
	m := bytecode.MethodID{Class: "java.sql.Statement", Method: "executeQuery", Params: "Ljava/lang/String;", ReturnType: "Ljava/sql/ResultSet;"}
	ops := []bytecode.Opcode{{Kind: bytecode.InvokeVirtual, Method: m}}
	loader := bytecode.NewLoader(bytecode.InMemory(map[bytecode.MethodID][]bytecode.Opcode{
		testMethod("m"): ops,
	}))
	tf := New[taint.Value](d, loader)

	s := frame.NewState[taint.Value](frame.NewFrame[taint.Value](pt(0)))
	s.Frame = s.Frame.Push(taint.Unknown) // receiver
	s.Frame = s.Frame.Push(taint.Tainted) // argument

	edges, err := tf.Step(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 1 || edges[0].State.Status != frame.SQLInjection {
		t.Fatalf("expected a single SQL-injection edge, got %+v", edges)
	}
}

func TestStepInvokeTaintSourceProducesTainted(t *testing.T) {
	pol := policy.Default()
	d := domain.Taint{Policy: pol}
	m := bytecode.MethodID{Class: "java.io.BufferedReader", Method: "readLine", ReturnType: "Ljava/lang/String;"}
	ops := []bytecode.Opcode{{Kind: bytecode.InvokeVirtual, Method: m}}
	loader := bytecode.NewLoader(bytecode.InMemory(map[bytecode.MethodID][]bytecode.Opcode{
		testMethod("m"): ops,
	}))
	tf := New[taint.Value](d, loader)

	s := frame.NewState[taint.Value](frame.NewFrame[taint.Value](pt(0)))
	s.Frame = s.Frame.Push(taint.Safe) // receiver

	edges, err := tf.Step(s)
	if err != nil || len(edges) != 1 {
		t.Fatalf("invoke source: got %v, %v", edges, err)
	}
	if edges[0].State.Status != frame.OK || edges[0].State.Frame.Peek() != taint.Tainted {
		t.Fatalf("expected an ok edge with a tainted result, got %+v", edges[0].State)
	}
}

func TestStepReturnHasNoSuccessors(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.Return}}
	s, tf := newSignState(ops)
	edges, err := tf.Step(s)
	if err != nil || edges != nil {
		t.Fatalf("return: expected no edges, got %v, %v", edges, err)
	}
}

func TestStepThrowIsAssertionError(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.Throw}}
	s, tf := newSignState(ops)
	edges, err := tf.Step(s)
	if err != nil || len(edges) != 1 || edges[0].State.Status != frame.AssertionError {
		t.Fatalf("throw: expected a single assertion-error edge, got %v, %v", edges, err)
	}
}

func TestStepTerminalStateHasNoSuccessors(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.Push, Value: bytecode.IntLit(1)}}
	s, tf := newSignState(ops)
	s.Status = frame.DivideByZero

	edges, err := tf.Step(s)
	if err != nil || edges != nil {
		t.Fatalf("expected a terminal state to have no successors, got %v, %v", edges, err)
	}
}

func TestStepGetFieldAssertionsDisabledIsZero(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.GetField, Field: "assertionsDisabled"}}
	s, tf := newSignState(ops)
	edges, err := tf.Step(s)
	if err != nil || len(edges) != 1 {
		t.Fatalf("get-field: got %v, %v", edges, err)
	}
	if edges[0].State.Frame.Peek() != sign.Zero {
		t.Fatalf("expected $assertionsDisabled to push Zero, got %v", edges[0].State.Frame.Peek())
	}
}

func TestStepGetFieldOtherFieldIsTop(t *testing.T) {
	ops := []bytecode.Opcode{{Kind: bytecode.GetField, Field: "someOtherField"}}
	s, tf := newSignState(ops)
	edges, err := tf.Step(s)
	if err != nil || len(edges) != 1 {
		t.Fatalf("get-field: got %v, %v", edges, err)
	}
	if edges[0].State.Frame.Peek() != sign.Top {
		t.Fatalf("expected an ordinary field read to push Top, got %v", edges[0].State.Frame.Peek())
	}
}
