// Package report implements the Reporter (spec.md §2 item 8, §6
// "Output (reporter)"): it renders a stabilized engine.Result as the
// line-oriented text format the CLI prints, and computes the single
// trailing verdict line.
//
// Grounded on the teacher's plain fmt/log-based output style (sentra
// has no structured-logging or templating library anywhere in its
// tree) and on the reference implementation's dump_A, which this
// package reproduces field-for-field: per-point lines sorted by
// method then offset, followed by one verdict line.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
	"github.com/Edvold/jpamb-analyzer/internal/domain"
	"github.com/Edvold/jpamb-analyzer/internal/frame"
)

// Write renders seen to w in the format spec.md §6 describes: one line
// per program point, sorted lexicographically by method name then
// offset, followed by a final verdict line. d.String is used to render
// each abstract value; budgetExhausted overrides the verdict with `*`
// regardless of what the per-point statuses say (spec.md §4.6, §7).
func Write[V comparable](w io.Writer, d domain.Domain[V], seen map[bytecode.Point]frame.State[V], budgetExhausted bool) error {
	points := make([]bytecode.Point, 0, len(seen))
	for p := range seen {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if ms := a.Method.String(); ms != b.Method.String() {
			return ms < b.Method.String()
		}
		return a.Offset < b.Offset
	})

	verdict := "ok"
	for _, p := range points {
		s := seen[p]
		if _, err := fmt.Fprintln(w, line(d, p, s)); err != nil {
			return err
		}
		if s.Status != frame.OK {
			verdict = s.Status.String()
		}
	}

	if budgetExhausted {
		verdict = "*"
	}
	_, err := fmt.Fprintln(w, verdict)
	return err
}

func line[V comparable](d domain.Domain[V], p bytecode.Point, s frame.State[V]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: ", p.Method, p.Offset)

	if s.Status != frame.OK {
		fmt.Fprintf(&b, "%s", s.Status)
		return b.String()
	}

	fmt.Fprintf(&b, "status=%s locals={ %s } stack=[%s] heap={ %s }",
		s.Status, renderLocals(d, s.Frame.Locals), renderStack(d, s.Frame.Stack), renderHeap(s.Heap))
	return b.String()
}

func renderLocals[V comparable](d domain.Domain[V], locals map[int]V) string {
	keys := make([]int, 0, len(locals))
	for k := range locals {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d:%s", k, d.String(locals[k])))
	}
	return strings.Join(parts, ", ")
}

func renderStack[V comparable](d domain.Domain[V], stack []V) string {
	parts := make([]string, len(stack))
	for i, v := range stack {
		parts[i] = d.String(v)
	}
	return strings.Join(parts, ", ")
}

func renderHeap(heap map[int]frame.Interval) string {
	keys := make([]int, 0, len(heap))
	for k := range heap {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d:%s", k, heap[k]))
	}
	return strings.Join(parts, ", ")
}
