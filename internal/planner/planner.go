// Package planner wraps a search.Engine with the bookkeeping a host loop
// needs to treat planning as an incremental, resumable activity: a plan
// computed against one root state stays valid until that state's hash
// changes, and every increment of work is attributed back to the plan's
// confidence and stability rather than discarded.
package planner

import (
	"errors"
	"time"

	"tacticore/internal/action"
	"tacticore/internal/mcts"
	"tacticore/internal/qfixed"
	"tacticore/internal/search"
)

// Context carries the per-call budget a host supplies to PlanStep. Unlike
// search.Config, it's meant to be rebuilt every call: a host driving a
// frame loop passes a fresh FrameBudgetMs each frame, and may flip Urgent
// on when a decision is needed sooner than the nominal plan would produce.
type Context struct {
	FrameBudgetMs float64
	TimeLimitMs   int64
	Urgent        bool
}

// urgentDepthCut and urgentDepthFloor implement "urgent reduces base_depth
// by 2, never below 4": a host under time pressure trades search depth
// for a faster first answer.
const (
	urgentDepthCut   = 2
	urgentDepthFloor = 4
)

// maxAlternatives bounds how many runner-up root moves PlannedAction
// carries alongside its primary.
const maxAlternatives = 3

// Verification blend weights and disagreement threshold, carried over
// from aas.py's middlegame MCTS-verification fallback: a plan's
// primary value is left alone unless a bounded MCTS search disagrees
// with it by more than verificationDisagreement, in which case the two
// are blended 0.7 primary / 0.3 verification rather than either one
// simply overriding the other.
const verificationDisagreement = 0.3

var (
	verificationPrimaryWeight = qfixed.FromFloatAtConstructionOnly(0.7)
	verificationMCTSWeight    = qfixed.FromFloatAtConstructionOnly(0.3)
	verificationThreshold     = qfixed.FromFloatAtConstructionOnly(verificationDisagreement)
)

// confidence's term weights: 0.4 on depth reached, 0.3 on planning time,
// 0.3 on the magnitude of the evaluation.
var (
	depthWeight = qfixed.FromFloatAtConstructionOnly(0.4)
	timeWeight  = qfixed.FromFloatAtConstructionOnly(0.3)
	evalWeight  = qfixed.FromFloatAtConstructionOnly(0.3)
)

// PlannedAction is the planner's externally observable result.
type PlannedAction struct {
	Primary        action.Action
	Confidence     qfixed.Q
	Alternatives   []action.Action
	ExpectedValue  qfixed.Q
	LookaheadDepth int
	PlanningTimeMs int64
	// Stability counts how many consecutive plan rebuilds kept the same
	// primary action, the way a time manager watches for a best-move
	// change to decide whether a search can wrap up early.
	Stability int
	// Completed is false while a plan is still being refined, or when the
	// last increment was cut off by a cancellation or a time-out rather
	// than concluding on its own (reaching its target depth, max depth,
	// or a mate score).
	Completed bool
	// EntropyTrend is the least-squares slope of this planner's recent
	// root-entropy history (see entropyGradient); positive means
	// successive roots have been getting less certain, negative means
	// more. Diagnostic only.
	EntropyTrend float64
	// VerificationApplied reports whether this plan's root entropy
	// exceeded the engine's high-entropy threshold and so was
	// cross-checked against a bounded MCTS search. VerifiedValue is
	// meaningful only when this is true; it equals ExpectedValue
	// unverified, or a 0.7/0.3 blend with the MCTS value when the two
	// searches disagreed by more than 0.3.
	VerificationApplied bool
	VerifiedValue       qfixed.Q
}

// Planner drives a search.Engine across many small increments of work,
// keeping a PlannedAction valid until the root it was computed against
// changes.
type Planner struct {
	engine *search.Engine

	planning        bool
	planValid       bool
	haveRootHash    bool
	lastRootHash    uint64
	totalPlanningMs int64
	iterations      int
	currentPlan     PlannedAction

	lastPrimary    action.Action
	haveLastPrimary bool

	entropy entropyGradient
	mctsCfg mcts.Config
}

// New wraps engine. The engine must not be shared with another Planner.
func New(engine *search.Engine) *Planner {
	return &Planner{engine: engine, mctsCfg: mcts.DefaultConfig()}
}

// SetVerificationConfig overrides the bounded MCTS search PlanStep runs
// as a verification fallback once a plan completes against a
// high-entropy root.
func (p *Planner) SetVerificationConfig(cfg mcts.Config) { p.mctsCfg = cfg }

// EntropyTrend reports the least-squares slope of this planner's recent
// root-entropy history across successive plans.
func (p *Planner) EntropyTrend() float64 { return p.entropy.trend() }

func (p *Planner) CurrentPlan() PlannedAction { return p.currentPlan }
func (p *Planner) Valid() bool                { return p.planValid }
func (p *Planner) Iterations() int            { return p.iterations }
func (p *Planner) TotalPlanningMs() int64     { return p.totalPlanningMs }

// Cancel stops the in-progress increment as soon as the engine's stop
// flag is next checked; the most recently built PlannedAction (if any)
// remains available via CurrentPlan, with Completed set to false.
func (p *Planner) Cancel() { p.engine.Cancel() }

// PlanStep advances planning by one frame's worth of work and reports
// whether CurrentPlan is ready to act on. Once a plan is ready, further
// calls against the same state return true without searching again.
func (p *Planner) PlanStep(state search.GameState, heur search.Evaluator, ctx Context) bool {
	if state == nil || heur == nil {
		return false
	}

	hash := state.Hash()
	if p.haveRootHash && hash != p.lastRootHash {
		p.planValid = false
		p.planning = false
	}

	if p.planValid && !p.planning {
		return true
	}

	if !p.planning {
		if err := p.beginPlanning(state, heur, hash); err != nil {
			return p.handleBeginError(state, err)
		}
		if state.IsTerminal() {
			return p.handleBeginError(state, nil)
		}
	}

	p.engine.SetConfig(p.stepConfig(ctx)) // ConfigRejected leaves config unchanged; nothing else to do here.

	stepStart := time.Now()
	done, err := p.engine.SearchStep()
	p.totalPlanningMs += time.Since(stepStart).Milliseconds()
	p.iterations++

	if errors.Is(err, search.ErrNoLegalActions) {
		return p.finalizeNoLegalActions()
	}
	if err != nil {
		p.planning = false
		return false
	}

	if best := p.engine.BestAction(); best != action.None {
		p.rebuildPlan(best, done)
		if done && !p.engine.Stopped() {
			p.applyVerification(state, heur)
		}
	}

	if done {
		p.planning = false
		p.planValid = true
		return true
	}
	return false
}

func (p *Planner) beginPlanning(state search.GameState, heur search.Evaluator, hash uint64) error {
	p.engine.ResetOrdering()
	p.totalPlanningMs = 0
	p.iterations = 0
	p.lastRootHash = hash
	p.haveRootHash = true
	p.planning = true
	if err := p.engine.BeginSearch(state, heur); err != nil {
		return err
	}
	p.entropy.update(p.engine.RootEntropy())
	return nil
}

// handleBeginError covers the two outcomes BeginSearch itself can reach
// before a single SearchStep ever runs: a terminal root, or a root with
// no legal actions at all. BeginSearch accepts a terminal root without
// error, so err is nil in that case.
func (p *Planner) handleBeginError(state search.GameState, err error) bool {
	p.planning = false
	if errors.Is(err, search.ErrNoLegalActions) {
		return p.finalizeNoLegalActions()
	}
	if state.IsTerminal() {
		p.currentPlan = PlannedAction{
			Primary:        action.None,
			ExpectedValue:  state.TerminalValue(),
			LookaheadDepth: 1,
			Completed:      true,
		}
		p.haveLastPrimary = false
		p.planValid = true
		return true
	}
	return false
}

func (p *Planner) finalizeNoLegalActions() bool {
	p.currentPlan = PlannedAction{
		Primary:        action.None,
		ExpectedValue:  qfixed.ZERO,
		LookaheadDepth: 1,
		Completed:      true,
	}
	p.haveLastPrimary = false
	p.planValid = true
	p.planning = false
	return true
}

// stepConfig builds this increment's configuration from the engine's
// current settings, overriding only the knobs a host supplies fresh
// every call: the frame budget, the time limit, and (when urgent) a
// shallower base depth.
func (p *Planner) stepConfig(ctx Context) search.Config {
	cfg := p.engine.Config()
	if ctx.FrameBudgetMs > 0 {
		cfg.FrameBudgetMs = ctx.FrameBudgetMs
	}
	cfg.TimeLimitMs = ctx.TimeLimitMs
	if ctx.Urgent {
		cfg.BaseDepth -= urgentDepthCut
		if cfg.BaseDepth < urgentDepthFloor {
			cfg.BaseDepth = urgentDepthFloor
		}
		if cfg.MaxDepth < cfg.BaseDepth {
			cfg.MaxDepth = cfg.BaseDepth
		}
	}
	return cfg
}

// rebuildPlan folds the engine's latest completed-depth result into
// currentPlan. done tells it whether this call is the search's natural
// conclusion (target depth, max depth, or mate) as opposed to a
// cancellation or time-out, which both leave the stop flag set.
func (p *Planner) rebuildPlan(best action.Action, done bool) {
	depthReached := p.engine.CompletedDepth()
	value := p.engine.BestValue()

	stability := 0
	if p.haveLastPrimary && best.Equal(p.lastPrimary) {
		stability = p.currentPlan.Stability + 1
	}
	p.lastPrimary = best
	p.haveLastPrimary = true

	p.currentPlan = PlannedAction{
		Primary:        best,
		Confidence:     confidence(depthReached, p.totalPlanningMs, value),
		Alternatives:   p.alternatives(best),
		ExpectedValue:  value,
		LookaheadDepth: depthReached,
		PlanningTimeMs: p.totalPlanningMs,
		Stability:      stability,
		Completed:      done && !p.engine.Stopped(),
		EntropyTrend:   p.entropy.trend(),
		VerifiedValue:  value,
	}
}

// applyVerification cross-checks a just-completed plan against a bounded
// MCTS search when the root's measured entropy exceeds the engine's
// high-entropy threshold, grounded on aas.py's middlegame verification
// fallback: the two searches' values are left alone unless they disagree
// by more than verificationDisagreement, in which case the plan's
// VerifiedValue becomes a 0.7/0.3 blend rather than either value
// overriding the other. This never touches ExpectedValue, Primary, or
// any other field spec §4.J/§8 fixes the meaning of.
func (p *Planner) applyVerification(state search.GameState, heur search.Evaluator) {
	cfg := p.engine.Config()
	if !cfg.AdaptiveDepth || p.engine.RootEntropy() <= cfg.HighEntropy {
		return
	}
	result := mcts.Search(state, heur, p.mctsCfg)
	if result.Best == action.None {
		return
	}

	primary := p.currentPlan.ExpectedValue
	verified := result.Value
	blended := primary
	if primary.Sub(verified).Abs() > verificationThreshold {
		blended = verificationPrimaryWeight.Mul(primary).Add(verificationMCTSWeight.Mul(verified))
	}
	p.currentPlan.VerificationApplied = true
	p.currentPlan.VerifiedValue = blended
}

// alternatives extracts up to maxAlternatives runner-up root moves from
// the engine's shadow Node tree, excluding the primary action, ranked by
// descending recorded value.
func (p *Planner) alternatives(primary action.Action) []action.Action {
	root := p.engine.RootNode()
	if root == nil {
		return nil
	}
	ranked := root.TopChildren(maxAlternatives + 1)
	alts := make([]action.Action, 0, maxAlternatives)
	for _, child := range ranked {
		if len(alts) == maxAlternatives {
			break
		}
		if child.Reached.Equal(primary) {
			continue
		}
		alts = append(alts, child.Reached)
	}
	return alts
}

// confidence implements 0.4*depth_factor + 0.3*time_factor +
// 0.3*eval_factor, with depth_factor = depth_reached/10, time_factor =
// elapsed_ms/1000, and eval_factor = |evaluation|, each clamped to
// [0, 1]. It is advisory output only: nothing about it feeds back into a
// search decision.
func confidence(depthReached int, elapsedMs int64, value qfixed.Q) qfixed.Q {
	depthFactor := qfixed.Clamp(qfixed.FromInt(depthReached).Div(qfixed.FromInt(10)), qfixed.ZERO, qfixed.ONE)
	timeFactor := qfixed.Clamp(qfixed.FromInt(int(elapsedMs)).Div(qfixed.FromInt(1000)), qfixed.ZERO, qfixed.ONE)
	evalFactor := qfixed.Clamp(value.Abs(), qfixed.ZERO, qfixed.ONE)
	return depthWeight.Mul(depthFactor).Add(timeWeight.Mul(timeFactor)).Add(evalWeight.Mul(evalFactor))
}
