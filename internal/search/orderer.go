package search

import (
	"sort"

	"tacticore/internal/action"
	"tacticore/internal/ordered"
)

// Move ordering key bands, from highest to lowest priority.
const (
	hashMoveScore    = 1_000_000
	captureBaseScore = 500_000
	killerScore0     = 400_000
	killerScore1     = killerScore0 - 100
	historyCap       = 399_999
)

func historyKey(a action.Action) uint64 {
	return uint64(a.From)<<32 | uint64(a.To)
}

// Orderer is the default move-ordering component: it scores and sorts a
// ply's legal actions so that the hash move, then captures, then killer
// moves, then moves with a good history score, then everything else by
// its static prior, are searched first.
type Orderer struct {
	killers [MaxPly][2]action.Action
	history *ordered.Map[uint64, int32]
}

// NewOrderer builds an empty Orderer.
func NewOrderer() *Orderer {
	return &Orderer{history: ordered.NewMap[uint64, int32]()}
}

// Order returns moves sorted by descending ordering key, stable on ties
// (so the original, generation-order position of equally-keyed moves is
// preserved).
func (o *Orderer) Order(moves []action.Action, ply int, hashMove *action.Action) []action.Action {
	out := make([]action.Action, len(moves))
	copy(out, moves)
	keys := make([]int64, len(out))
	for i, m := range out {
		keys[i] = o.key(m, ply, hashMove)
	}
	sort.SliceStable(out, func(i, j int) bool { return keys[i] > keys[j] })
	return out
}

func (o *Orderer) key(m action.Action, ply int, hashMove *action.Action) int64 {
	if hashMove != nil && m.Equal(*hashMove) {
		return hashMoveScore
	}
	if m.IsCapture() {
		return captureBaseScore + int64(m.StaticScore.Raw())/100
	}
	if ply >= 0 && ply < MaxPly {
		if m.Equal(o.killers[ply][0]) {
			return killerScore0
		}
		if m.Equal(o.killers[ply][1]) {
			return killerScore1
		}
	}
	if h, ok := o.history.Find(historyKey(m)); ok && h > 0 {
		if int64(h) > historyCap {
			return historyCap
		}
		return int64(h)
	}
	return int64(m.Prior.Raw()) / 32
}

// RecordKiller registers a as the most recent killer at ply, demoting
// whatever previously held slot 0 into slot 1. Captures are never
// recorded as killers since they already sort ahead of them.
func (o *Orderer) RecordKiller(a action.Action, ply int) {
	if ply < 0 || ply >= MaxPly || a.IsCapture() {
		return
	}
	if o.killers[ply][0].Equal(a) {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = a
}

// RecordHistory adds depth^2 to a's history score, capped at 100000.
// Captures are excluded since they're ordered by static score instead.
func (o *Orderer) RecordHistory(a action.Action, depth int) {
	if a.IsCapture() {
		return
	}
	key := historyKey(a)
	cur, _ := o.history.Find(key)
	bonus := int32(depth * depth)
	next := cur + bonus
	if next > 100_000 {
		next = 100_000
	}
	o.history.Set(key, next)
}

// AgeHistory halves every history entry, keeping old bonuses from
// permanently dominating fresh ones across searches.
func (o *Orderer) AgeHistory() {
	o.history.ScaleValues(func(v int32) int32 { return v / 2 })
}

// Clear empties both the killer table and the history map.
func (o *Orderer) Clear() {
	o.killers = [MaxPly][2]action.Action{}
	o.history.Clear()
}
