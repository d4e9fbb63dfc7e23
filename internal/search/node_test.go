package search

import (
	"testing"

	"tacticore/internal/action"
	"tacticore/internal/qfixed"
)

func act(from, to uint32) action.Action { return action.Action{From: from, To: to} }

func TestNodeAddChildKeepsActionOrder(t *testing.T) {
	root := NewRoot(1)
	root.AddChild(act(2, 0), 10)
	root.AddChild(act(0, 0), 11)
	root.AddChild(act(1, 0), 12)

	var seenFrom []uint32
	for _, c := range root.Children() {
		seenFrom = append(seenFrom, c.Reached.From)
	}
	want := []uint32{0, 1, 2}
	for i, w := range want {
		if seenFrom[i] != w {
			t.Fatalf("children order = %v, want %v", seenFrom, want)
		}
	}
}

func TestNodeFindChild(t *testing.T) {
	root := NewRoot(1)
	root.AddChild(act(0, 0), 10)
	b := root.AddChild(act(1, 0), 11)
	root.AddChild(act(2, 0), 12)

	got := root.FindChild(act(1, 0))
	if got != b {
		t.Fatal("FindChild did not return the matching child")
	}
	if root.FindChild(act(9, 9)) != nil {
		t.Fatal("FindChild found a non-existent action")
	}
}

func TestNodeBestChildTiesPreferFirstInActionOrder(t *testing.T) {
	root := NewRoot(1)
	a := root.AddChild(act(0, 0), 10)
	b := root.AddChild(act(1, 0), 11)
	a.Value = qfixed.FromInt(1)
	b.Value = qfixed.FromInt(1)

	if root.BestChild() != a {
		t.Fatal("expected tie-break to prefer the action-order-first child")
	}
}

func TestNodeRecordVisitAndAverage(t *testing.T) {
	n := NewRoot(1)
	n.RecordVisit(qfixed.FromInt(1))
	n.RecordVisit(qfixed.ZERO)
	n.RecordVisit(qfixed.FromInt(-1))

	if n.Visits != 3 {
		t.Fatalf("visits = %d, want 3", n.Visits)
	}
	if avg := n.AverageValue(); avg != qfixed.ZERO {
		t.Fatalf("average = %v, want 0", avg)
	}
}

func TestNodeDetachFromParentRemovesFromChildList(t *testing.T) {
	root := NewRoot(1)
	a := root.AddChild(act(0, 0), 10)
	root.AddChild(act(1, 0), 11)

	a.DetachFromParent()
	if a.Parent() != nil {
		t.Fatal("detached node still has a parent")
	}
	if len(root.Children()) != 1 {
		t.Fatalf("root has %d children after detach, want 1", len(root.Children()))
	}
	if root.FindChild(act(0, 0)) != nil {
		t.Fatal("detached child still reachable from root")
	}
}

func TestNodePrincipalVariationFollowsBestChild(t *testing.T) {
	root := NewRoot(1)
	a := root.AddChild(act(0, 0), 10)
	a.Value = qfixed.FromInt(1)
	aa := a.AddChild(act(0, 1), 20)
	aa.Value = qfixed.FromInt(1)

	pv := root.PrincipalVariation(5)
	if len(pv) != 2 {
		t.Fatalf("pv length = %d, want 2", len(pv))
	}
	if !pv[0].Equal(act(0, 0)) || !pv[1].Equal(act(0, 1)) {
		t.Fatalf("pv = %v, want [a, aa]", pv)
	}
}

func TestNodeBestChildUCBPrefersUnvisited(t *testing.T) {
	root := NewRoot(1)
	visited := root.AddChild(act(0, 0), 10)
	visited.RecordVisit(qfixed.FromInt(1))
	unvisited := root.AddChild(act(1, 0), 11)
	root.Visits = 1

	if root.BestChildUCB(qfixed.ONE) != unvisited {
		t.Fatal("expected BestChildUCB to prefer the unvisited child")
	}
}
