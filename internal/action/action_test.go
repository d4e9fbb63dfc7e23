package action

import "testing"

func TestTotalOrderTotality(t *testing.T) {
	as := []Action{
		{From: 0, To: 1, TypeFlags: 0, Payload: 0},
		{From: 0, To: 1, TypeFlags: 0, Payload: 1},
		{From: 0, To: 2, TypeFlags: 0, Payload: 0},
		{From: 1, To: 0, TypeFlags: 3, Payload: -5},
		{From: 0, To: 1, TypeFlags: 0, Payload: 0}, // duplicate of as[0]
	}

	for i := range as {
		for j := range as {
			a, b := as[i], as[j]
			lt, eq, gt := Less(a, b), a.Equal(b), Less(b, a)
			n := 0
			for _, v := range []bool{lt, eq, gt} {
				if v {
					n++
				}
			}
			if n != 1 {
				t.Fatalf("totality violated for pair (%d,%d): lt=%v eq=%v gt=%v", i, j, lt, eq, gt)
			}
		}
	}
}

func TestLessTransitive(t *testing.T) {
	a := Action{From: 0, To: 0, TypeFlags: 0, Payload: 0}
	b := Action{From: 0, To: 1, TypeFlags: 0, Payload: 0}
	c := Action{From: 1, To: 0, TypeFlags: 0, Payload: 0}

	if !Less(a, b) || !Less(b, c) || !Less(a, c) {
		t.Fatalf("expected a<b<c, got Less(a,b)=%v Less(b,c)=%v Less(a,c)=%v", Less(a, b), Less(b, c), Less(a, c))
	}
}

func TestFlags(t *testing.T) {
	a := Action{TypeFlags: FlagCapture | FlagForcing}
	if !a.IsCapture() || !a.IsForcing() {
		t.Fatal("expected both capture and forcing flags set")
	}
	b := Action{TypeFlags: 0}
	if b.IsCapture() || b.IsForcing() {
		t.Fatal("expected neither flag set")
	}
}

func TestEqualityIgnoresMetadata(t *testing.T) {
	a := Action{From: 1, To: 2, TypeFlags: 1, Payload: 0, ActionID: 5}
	b := Action{From: 1, To: 2, TypeFlags: 1, Payload: 0, ActionID: 9}
	if !a.Equal(b) {
		t.Fatal("actions with differing ActionID/Prior should still be Equal by identity fields")
	}
}
