package taint

import "testing"

func TestJoinLaws(t *testing.T) {
	values := []Value{Bot, Safe, Tainted, Unknown}
	for _, a := range values {
		if a.Join(a) != a {
			t.Fatalf("join not idempotent for %v", a)
		}
		if Bot.Join(a) != a {
			t.Fatalf("bot is not identity for join with %v", a)
		}
		for _, b := range values {
			if a.Join(b) != b.Join(a) {
				t.Fatalf("join not commutative for %v, %v", a, b)
			}
			for _, c := range values {
				if a.Join(b).Join(c) != a.Join(b.Join(c)) {
					t.Fatalf("join not associative for %v, %v, %v", a, b, c)
				}
			}
		}
	}
}

func TestSafeTaintedJoinIsUnknown(t *testing.T) {
	if got := Safe.Join(Tainted); got != Unknown {
		t.Fatalf("safe join tainted = %v, want unknown", got)
	}
	if got := Tainted.Join(Safe); got != Unknown {
		t.Fatalf("tainted join safe = %v, want unknown", got)
	}
}

func TestPredicates(t *testing.T) {
	if !Tainted.IsTainted() || Safe.IsTainted() || Unknown.IsTainted() {
		t.Fatal("IsTainted must hold only for Tainted")
	}
	if !Tainted.MayBeTainted() || !Unknown.MayBeTainted() || Safe.MayBeTainted() {
		t.Fatal("MayBeTainted must hold for Tainted and Unknown only")
	}
	if !Safe.IsSafe() || Tainted.IsSafe() {
		t.Fatal("IsSafe must hold only for Safe")
	}
}
