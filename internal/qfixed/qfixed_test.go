package qfixed

import "testing"

func TestAlgebraIdentities(t *testing.T) {
	a := FromFloatAtConstructionOnly(0.3)
	b := FromFloatAtConstructionOnly(-0.15)
	c := FromFloatAtConstructionOnly(0.6)

	if got := a.Add(b).Add(c); got != a.Add(b.Add(c)) {
		t.Errorf("addition not associative: %v != %v", got, a.Add(b.Add(c)))
	}
	if got := a.Sub(b); got != b.Sub(a).Neg() {
		t.Errorf("a-b != -(b-a): %v vs %v", got, b.Sub(a).Neg())
	}
	if got := a.Mul(ONE); got != a {
		t.Errorf("a*ONE != a: %v vs %v", got, a)
	}
	if got := a.Div(ONE); got != a {
		t.Errorf("a/ONE != a: %v vs %v", got, a)
	}
	if got := ZERO.Mul(a); got != ZERO {
		t.Errorf("ZERO*a != ZERO: %v", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	pos := FromInt(1)
	neg := FromInt(-1)

	if got := pos.Div(ZERO); got != MAX {
		t.Errorf("pos/0 = %v, want MAX", got)
	}
	if got := neg.Div(ZERO); got >= 0 {
		t.Errorf("neg/0 = %v, want a negative sentinel", got)
	}
}

func TestTotalOrder(t *testing.T) {
	values := []Q{MIN, FromInt(-1), ZERO, ONE, FromInt(2), MAX}
	for i := range values {
		for j := range values {
			a, b := values[i], values[j]
			lt, eq, gt := a.Less(b), a == b, b.Less(a)
			count := 0
			for _, v := range []bool{lt, eq, gt} {
				if v {
					count++
				}
			}
			if count != 1 {
				t.Fatalf("totality violated for (%v,%v): lt=%v eq=%v gt=%v", a, b, lt, eq, gt)
			}
		}
	}
}

func TestSaturation(t *testing.T) {
	if got := MAX.Add(ONE); got != MAX {
		t.Errorf("MAX+ONE = %v, want MAX", got)
	}
	if got := MIN.Sub(ONE); got != MIN {
		t.Errorf("MIN-ONE = %v, want MIN", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(FromInt(5), FromInt(-1), ONE); got != ONE {
		t.Errorf("Clamp(5,-1,1) = %v, want ONE", got)
	}
	if got := Clamp(FromInt(-5), FromInt(-1), ONE); got != FromInt(-1) {
		t.Errorf("Clamp(-5,-1,1) = %v, want -1", got)
	}
}
