package replay

import (
	"tacticore/internal/action"
	"tacticore/internal/planner"
	"tacticore/internal/search"
)

// ActionRecord is an action's logged identity: three of the four fields
// that define action.Action equality, in the field order spec's §6 JSON
// serialization names. Payload is not logged.
type ActionRecord struct {
	From      uint32 `json:"from"`
	To        uint32 `json:"to"`
	TypeFlags uint32 `json:"type_flags"`
}

// PVStep is one hop of a logged principal variation: §6 only names
// from/to for PV entries, not the full action record.
type PVStep struct {
	From uint32 `json:"from"`
	To   uint32 `json:"to"`
}

// Result is the deterministic JSON serialization of a search result
// spec §6 names for logs/replays. Evaluation and Entropy are converted
// to float64 only at the log boundary (ToFloatForLoggingOnly) — nothing
// upstream of this record ever stored a decision in float64.
//
// EntropyTrend, Verified and VerifiedValue are additive diagnostic
// fields §6 doesn't name: they log the planner's entropy-gradient trend
// and its MCTS-verification pass (see internal/planner's
// applyVerification) alongside the authoritative fields, never in place
// of any of them.
type Result struct {
	BestAction         ActionRecord `json:"best_action"`
	Evaluation         float64      `json:"evaluation"`
	NodesSearched      uint64       `json:"nodes_searched"`
	DepthReached       int          `json:"depth_reached"`
	TimeMs             int64        `json:"time_ms"`
	TTHitRate          float64      `json:"tt_hit_rate"`
	Completed          bool         `json:"completed"`
	Entropy            float64      `json:"entropy"`
	PrincipalVariation []PVStep     `json:"principal_variation"`
	EntropyTrend       float64      `json:"entropy_trend"`
	Verified           bool         `json:"verified"`
	VerifiedValue      float64      `json:"verified_value"`
}

func actionRecord(a action.Action) ActionRecord {
	return ActionRecord{From: a.From, To: a.To, TypeFlags: a.TypeFlags}
}

func pvSteps(pv []action.Action) []PVStep {
	if len(pv) == 0 {
		return nil
	}
	steps := make([]PVStep, len(pv))
	for i, a := range pv {
		steps[i] = PVStep{From: a.From, To: a.To}
	}
	return steps
}

// ResultFromPlan builds a logged Result from a planner's PlannedAction
// and the engine it was computed by, reading the engine for what
// PlannedAction doesn't itself carry: node count, TT hit rate, root
// entropy, and the principal variation.
func ResultFromPlan(plan planner.PlannedAction, eng *search.Engine) Result {
	return Result{
		BestAction:         actionRecord(plan.Primary),
		Evaluation:         plan.ExpectedValue.ToFloatForLoggingOnly(),
		NodesSearched:      eng.Nodes(),
		DepthReached:       plan.LookaheadDepth,
		TimeMs:             plan.PlanningTimeMs,
		TTHitRate:          eng.TTHitRate(),
		Completed:          plan.Completed,
		Entropy:            eng.RootEntropy().ToFloatForLoggingOnly(),
		PrincipalVariation: pvSteps(eng.PV()),
		EntropyTrend:       plan.EntropyTrend,
		Verified:           plan.VerificationApplied,
		VerifiedValue:      plan.VerifiedValue.ToFloatForLoggingOnly(),
	}
}
