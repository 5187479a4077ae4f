package report

import (
	"strings"
	"testing"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/frame"
	"github.com/Edvold/jpamb-analyzer/internal/sign"
)

func method(name string) bytecode.MethodID {
	return bytecode.MethodID{Class: "Test", Method: name, ReturnType: "I"}
}

func TestWriteSortsByMethodThenOffset(t *testing.T) {
	seen := map[bytecode.Point]frame.State[sign.Set]{
		{Method: method("g"), Offset: 0}: frame.NewState[sign.Set](frame.NewFrame[sign.Set](bytecode.Point{Method: method("g"), Offset: 0})),
		{Method: method("f"), Offset: 1}: frame.NewState[sign.Set](frame.NewFrame[sign.Set](bytecode.Point{Method: method("f"), Offset: 1})),
		{Method: method("f"), Offset: 0}: frame.NewState[sign.Set](frame.NewFrame[sign.Set](bytecode.Point{Method: method("f"), Offset: 0})),
	}

	var buf strings.Builder
	if err := Write[sign.Set](&buf, domain.Sign{}, seen, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 3 point lines + 1 verdict, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "Test.f:(") || !strings.Contains(lines[0], ":0:") {
		t.Fatalf("expected f:0 first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], ":1:") {
		t.Fatalf("expected f:1 second, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Test.g:(") {
		t.Fatalf("expected g:0 third, got %q", lines[2])
	}
	if lines[3] != "ok" {
		t.Fatalf("expected trailing verdict ok, got %q", lines[3])
	}
}

func TestWriteEmitsBareTagForNonOkStatus(t *testing.T) {
	pc := bytecode.Point{Method: method("f"), Offset: 2}
	s := frame.NewState[sign.Set](frame.NewFrame[sign.Set](pc)).WithStatus(frame.DivideByZero)
	seen := map[bytecode.Point]frame.State[sign.Set]{pc: s}

	var buf strings.Builder
	if err := Write[sign.Set](&buf, domain.Sign{}, seen, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, ": divide by zero") || strings.Contains(out, "<divide by zero>") {
		t.Fatalf("expected a bare tag line, got %q", out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "divide by zero") {
		t.Fatalf("expected the verdict line to carry the non-ok status, got %q", out)
	}
}

func TestWriteBudgetExhaustionOverridesVerdict(t *testing.T) {
	pc := bytecode.Point{Method: method("f"), Offset: 0}
	s := frame.NewState[sign.Set](frame.NewFrame[sign.Set](pc))
	seen := map[bytecode.Point]frame.State[sign.Set]{pc: s}

	var buf strings.Builder
	if err := Write[sign.Set](&buf, domain.Sign{}, seen, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[len(lines)-1] != "*" {
		t.Fatalf("expected budget-exhaustion marker as final line, got %q", lines[len(lines)-1])
	}
}
