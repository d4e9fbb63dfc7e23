package search

import (
	"testing"

	"tacticore/internal/qfixed"
)

func TestTableSizeFloorsAtMinAndPowerOfTwo(t *testing.T) {
	table := NewTable(1)
	if table.Len() < minTTEntries {
		t.Fatalf("len = %d, want at least %d", table.Len(), minTTEntries)
	}
	if table.Len()&(table.Len()-1) != 0 {
		t.Fatalf("len = %d, not a power of two", table.Len())
	}
}

func TestTableStoreThenProbeHits(t *testing.T) {
	table := NewTable(1)
	e := Entry{StateHash: 42, Value: qfixed.FromInt(1), Depth: 5, Type: Exact}
	table.Store(e)

	got, ok := table.Probe(42)
	if !ok {
		t.Fatal("expected a hit")
	}
	if got.Value != e.Value || got.Depth != e.Depth {
		t.Fatalf("got = %+v, want %+v", got, e)
	}
}

func TestTableProbeMissOnEmptyOrCollision(t *testing.T) {
	table := NewTable(1)
	if _, ok := table.Probe(7); ok {
		t.Fatal("expected a miss on an empty table")
	}

	table.Store(Entry{StateHash: 1, Depth: 3})
	if _, ok := table.Probe(uint64(table.Len()) + 1); ok {
		t.Fatal("expected a miss on a colliding hash")
	}
}

func TestTableStoreKeepsDeeperEntry(t *testing.T) {
	table := NewTable(1)
	deep := Entry{StateHash: 9, Depth: 8, Value: qfixed.ZERO}
	// A different state that maps to the same slot.
	shallow := Entry{StateHash: 9 + uint64(table.Len()), Depth: 2, Value: qfixed.FromInt(1)}

	table.Store(deep)
	table.Store(shallow)

	got, _ := table.Probe(9)
	if got.Depth != deep.Depth {
		t.Fatalf("shallower store overwrote a deeper entry: got depth %d", got.Depth)
	}
}

func TestTableClearZeroesEverything(t *testing.T) {
	table := NewTable(1)
	table.Store(Entry{StateHash: 1, Depth: 1})
	table.Probe(1)
	table.Clear()

	if _, ok := table.Probe(1); ok {
		t.Fatal("entry survived Clear")
	}
	if table.HitRate() != 0 {
		t.Fatal("hit rate not reset by Clear")
	}
}

func TestMateScoreAdjustRoundTrips(t *testing.T) {
	v := EvalMate.Sub(3)
	stored := AdjustMateToTT(v, 5)
	back := AdjustMateFromTT(stored, 5)
	if back != v {
		t.Fatalf("round trip = %v, want %v", back, v)
	}
}
