package search

import (
	"tacticore/internal/action"
	"tacticore/internal/qfixed"
)

// EntryType classifies how an Entry's Value bounds the true value of its
// state at the depth it was stored.
type EntryType uint8

const (
	Exact EntryType = iota
	LowerBound
	UpperBound
)

// Entry is one transposition table slot.
type Entry struct {
	StateHash  uint64
	Value      qfixed.Q
	BestAction action.Action
	Depth      int32
	Type       EntryType
}

// minTTEntries is the table's floor size, matching spec's "never smaller
// than 1024 entries" rule regardless of how small tt_size_mb is set.
const minTTEntries = 1024

// approxEntrySize is a rough byte cost per slot, used only to translate a
// megabyte budget into a slot count. It doesn't need to be exact.
const approxEntrySize = 48

// Table is a direct-mapped transposition table: one slot per hash bucket,
// no chaining, no locking. A state_hash of 0 always denotes an empty
// slot, so real states must never hash to 0 (the degenerate case is the
// adapter's responsibility to avoid).
type Table struct {
	entries []Entry
	mask    uint64
	probes  uint64
	hits    uint64
}

// NewTable builds a table sized from a megabyte budget, rounded up to a
// power of two and never below minTTEntries.
func NewTable(sizeMB int) *Table {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	want := uint64(sizeMB) * 1024 * 1024 / approxEntrySize
	n := roundUpPow2(want)
	if n < minTTEntries {
		n = minTTEntries
	}
	return &Table{entries: make([]Entry, n), mask: n - 1}
}

func roundUpPow2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// Probe looks up a state hash. The second return value is false when the
// slot is empty or occupied by a different state (a collision, which the
// table resolves by simply not reporting a hit).
func (t *Table) Probe(hash uint64) (Entry, bool) {
	t.probes++
	e := &t.entries[hash&t.mask]
	if e.StateHash == hash {
		t.hits++
		return *e, true
	}
	return Entry{}, false
}

// Store writes an entry, always replacing an empty slot or one holding
// the same state, and otherwise replacing only when the new entry was
// computed at an equal or greater depth (always-replace-if-deeper).
func (t *Table) Store(e Entry) {
	slot := &t.entries[e.StateHash&t.mask]
	if slot.StateHash == 0 || slot.StateHash == e.StateHash || e.Depth >= slot.Depth {
		*slot = e
	}
}

// Len is the slot count (always a power of two, never below 1024).
func (t *Table) Len() int { return len(t.entries) }

// Clear zeroes every slot and resets the hit/probe counters.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.probes = 0
	t.hits = 0
}

// HitRate is hits/probes, or 0 when no probes have occurred.
func (t *Table) HitRate() float64 {
	if t.probes == 0 {
		return 0
	}
	return float64(t.hits) / float64(t.probes)
}

// AdjustMateToTT converts a mate score relative to the current search
// ply into one relative to the state being stored, so that later probes
// at a different ply can convert it back correctly.
func AdjustMateToTT(v qfixed.Q, ply int) qfixed.Q {
	switch {
	case v > mateThreshold:
		return v.Add(qfixed.Q(ply))
	case v < -mateThreshold:
		return v.Sub(qfixed.Q(ply))
	default:
		return v
	}
}

// AdjustMateFromTT is the inverse of AdjustMateToTT, applied when a mate
// score is read back at a different ply than it was stored at.
func AdjustMateFromTT(v qfixed.Q, ply int) qfixed.Q {
	switch {
	case v > mateThreshold:
		return v.Sub(qfixed.Q(ply))
	case v < -mateThreshold:
		return v.Add(qfixed.Q(ply))
	default:
		return v
	}
}
