package sign

import "testing"

func TestJoinLaws(t *testing.T) {
	values := []Set{Bot, Top, Neg, Zero, Pos, Neg.Join(Zero), Pos.Join(Zero)}
	for _, a := range values {
		for _, b := range values {
			if a.Join(b) != b.Join(a) {
				t.Fatalf("join not commutative for %v, %v", a, b)
			}
			if a.Join(a) != a {
				t.Fatalf("join not idempotent for %v", a)
			}
			if Bot.Join(a) != a {
				t.Fatalf("bot is not identity for join with %v", a)
			}
			if Top.Join(a) != Top {
				t.Fatalf("top does not absorb %v", a)
			}
		}
		for _, b := range values {
			for _, c := range values {
				if a.Join(b).Join(c) != a.Join(b.Join(c)) {
					t.Fatalf("join not associative for %v, %v, %v", a, b, c)
				}
			}
		}
	}
}

func TestOfIntSoundness(t *testing.T) {
	cases := []int64{-5, -1, 0, 1, 5}
	for _, x := range cases {
		for _, y := range cases {
			gotAdd := Of(x).Add(Of(y))
			if !gotAdd.admits(x + y) {
				t.Errorf("Add(%d,%d): sign of %d not admitted by %v", x, y, x+y, gotAdd)
			}
			gotSub := Of(x).Sub(Of(y))
			if !gotSub.admits(x - y) {
				t.Errorf("Sub(%d,%d): sign of %d not admitted by %v", x, y, x-y, gotSub)
			}
			gotMul := Of(x).Mul(Of(y))
			if !gotMul.admits(x * y) {
				t.Errorf("Mul(%d,%d): sign of %d not admitted by %v", x, y, x*y, gotMul)
			}
			if y != 0 {
				q, dz := Of(x).Div(Of(y))
				if dz {
					t.Errorf("Div(%d,%d): divByZero true for nonzero divisor", x, y)
				}
				if !q.admits(x / y) {
					t.Errorf("Div(%d,%d): sign of %d not admitted by %v", x, y, x/y, q)
				}
				r, _ := Of(x).Rem(Of(y))
				if !r.admits(x % y) {
					t.Errorf("Rem(%d,%d): sign of %d not admitted by %v", x, y, x%y, r)
				}
			} else {
				q, dz := Of(x).Div(Of(y))
				if !dz || !q.IsBot() {
					t.Errorf("Div(%d,0): want (Bot,true), got (%v,%v)", x, q, dz)
				}
			}
		}
	}
}

// admits reports whether v's sign is a member of a (test-only helper).
func (a Set) admits(v int64) bool {
	return Of(v).mask&a.mask == Of(v).mask
}

func TestDivByZeroFlag(t *testing.T) {
	_, dz := Top.Div(Zero)
	if !dz {
		t.Fatal("dividing by exactly zero must raise divByZero")
	}
	_, dz = Top.Div(Top)
	if !dz {
		t.Fatal("Top divisor may be zero, divByZero must be true")
	}
	_, dz = Top.Div(Pos)
	if dz {
		t.Fatal("strictly positive divisor cannot be zero")
	}
}

func TestRemAdmitsZeroWheneverDividendNotBot(t *testing.T) {
	r, _ := Pos.Rem(Pos)
	if !r.MayBeZero() {
		t.Fatal("Rem must admit zero whenever dividend is not Bot, even if dividend cannot be zero")
	}
	r, _ = Bot.Rem(Pos)
	if !r.IsBot() {
		t.Fatal("Rem of Bot dividend must be Bot")
	}
}
