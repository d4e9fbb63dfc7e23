package planner

import (
	"testing"

	"tacticore/internal/action"
	"tacticore/internal/qfixed"
	"tacticore/internal/search"
)

// subState is a tiny deterministic two-player subtraction game (take
// 1-3 stones, whoever faces zero loses) used only by this package's own
// tests: its optimal play is well understood, which is enough to check
// that a plan's primary action is a real decision and not just whatever
// move happened to be first.
type subState struct {
	stones int
	agent  int32
}

func (s *subState) Hash() uint64 { return uint64(s.stones)<<1 | uint64(s.agent) }

func (s *subState) LegalActions() []action.Action {
	var moves []action.Action
	max := 3
	if s.stones < max {
		max = s.stones
	}
	for take := 1; take <= max; take++ {
		moves = append(moves, action.Action{ActionID: uint32(take - 1), Payload: int32(take)})
	}
	return moves
}

func (s *subState) Apply(a action.Action) (search.GameState, error) {
	return &subState{stones: s.stones - int(a.Payload), agent: 1 - s.agent}, nil
}

func (s *subState) IsTerminal() bool        { return s.stones == 0 }
func (s *subState) TerminalValue() qfixed.Q { return qfixed.FromInt(-1) }
func (s *subState) ActiveAgentID() int32    { return s.agent }
func (s *subState) Clone() search.GameState { c := *s; return &c }

type subHeuristic struct{}

func (subHeuristic) Evaluate(s search.GameState) qfixed.Q {
	ss := s.(*subState)
	if ss.stones%4 == 0 {
		return qfixed.FromFloatAtConstructionOnly(-0.1)
	}
	return qfixed.FromFloatAtConstructionOnly(0.1)
}

func newTestPlanner(t *testing.T, cfgFn func(c search.Config) search.Config) *Planner {
	t.Helper()
	cfg := search.DefaultConfig()
	cfg.BaseDepth = 6
	cfg.MaxDepth = 6
	cfg.TTSizeMB = 1
	if cfgFn != nil {
		cfg = cfgFn(cfg)
	}
	engine, err := search.NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return New(engine)
}

func runPlanToCompletion(t *testing.T, p *Planner, state search.GameState, ctx Context, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		if p.PlanStep(state, subHeuristic{}, ctx) {
			return
		}
	}
	t.Fatalf("plan never became valid within %d steps", maxSteps)
}

func TestPlanStepRejectsNilStateOrHeuristics(t *testing.T) {
	p := newTestPlanner(t, nil)
	if p.PlanStep(nil, subHeuristic{}, Context{FrameBudgetMs: 5}) {
		t.Fatal("expected PlanStep to return false for a nil state")
	}
	if p.PlanStep(&subState{stones: 5}, nil, Context{FrameBudgetMs: 5}) {
		t.Fatal("expected PlanStep to return false for a nil heuristic")
	}
}

func TestPlanStepFindsCorrectMove(t *testing.T) {
	p := newTestPlanner(t, nil)
	state := &subState{stones: 5, agent: 0}
	runPlanToCompletion(t, p, state, Context{FrameBudgetMs: 5}, 200)

	plan := p.CurrentPlan()
	if plan.Primary.Payload != 1 {
		t.Fatalf("primary action takes %d stones from a pile of 5, want 1", plan.Primary.Payload)
	}
	if !plan.Completed {
		t.Fatal("expected a naturally completed plan")
	}
	if plan.Confidence < qfixed.ZERO || plan.Confidence > qfixed.ONE {
		t.Fatalf("confidence %v out of [0,1]", plan.Confidence)
	}
	if !p.Valid() {
		t.Fatal("expected Valid() to report true once PlanStep returns true")
	}

	for _, alt := range plan.Alternatives {
		if alt.Equal(plan.Primary) {
			t.Fatalf("alternatives must exclude the primary action, got %+v", alt)
		}
	}
	if len(plan.Alternatives) > maxAlternatives {
		t.Fatalf("got %d alternatives, want at most %d", len(plan.Alternatives), maxAlternatives)
	}
}

func TestPlanStepTerminalRootYieldsDefaultPrimary(t *testing.T) {
	p := newTestPlanner(t, nil)
	state := &subState{stones: 0, agent: 0}
	if !p.PlanStep(state, subHeuristic{}, Context{FrameBudgetMs: 5}) {
		t.Fatal("a terminal root should produce a valid plan on the first call")
	}
	plan := p.CurrentPlan()
	if plan.Primary != action.None {
		t.Fatalf("expected the default action at a terminal root, got %+v", plan.Primary)
	}
	if plan.ExpectedValue != state.TerminalValue() {
		t.Fatalf("expected value %v, want the root's own terminal value %v", plan.ExpectedValue, state.TerminalValue())
	}
	if !plan.Completed {
		t.Fatal("a terminal root's plan should be reported complete")
	}
}

func TestPlanStepInvalidatesOnHashChange(t *testing.T) {
	p := newTestPlanner(t, nil)
	first := &subState{stones: 5, agent: 0}
	runPlanToCompletion(t, p, first, Context{FrameBudgetMs: 5}, 200)
	if !p.Valid() {
		t.Fatal("expected a valid plan after the first root completed")
	}

	second := &subState{stones: 7, agent: 0}
	// The very next call observes the hash change and must restart
	// planning rather than reuse the stale plan.
	done := p.PlanStep(second, subHeuristic{}, Context{FrameBudgetMs: 5})
	if done {
		// A single frame may be enough for a shallow search; either way,
		// the plan it now reports must belong to the new root.
		if p.CurrentPlan().Primary.Payload == 0 {
			t.Fatal("expected a real primary action for the new root")
		}
	}
	runPlanToCompletion(t, p, second, Context{FrameBudgetMs: 5}, 200)
	if p.CurrentPlan().Primary.Payload != 3 {
		t.Fatalf("primary action for a pile of 7 takes %d, want 3 (leaving the losing position of 4)", p.CurrentPlan().Primary.Payload)
	}
}

func TestPlanStepStabilityAccumulatesAcrossDepths(t *testing.T) {
	p := newTestPlanner(t, func(c search.Config) search.Config { c.AdaptiveDepth = false; return c })
	state := &subState{stones: 5, agent: 0}
	var lastStability int
	for i := 0; i < 200; i++ {
		done := p.PlanStep(state, subHeuristic{}, Context{FrameBudgetMs: 0.01})
		lastStability = p.CurrentPlan().Stability
		if done {
			break
		}
	}
	if lastStability == 0 {
		t.Fatal("expected stability to accumulate once the best move stopped changing across iterations")
	}
}

func TestPlanStepUrgentReducesBaseDepth(t *testing.T) {
	p := newTestPlanner(t, func(c search.Config) search.Config {
		c.BaseDepth = 10
		c.MaxDepth = 10
		c.AdaptiveDepth = false
		return c
	})
	state := &subState{stones: 5, agent: 0}
	runPlanToCompletion(t, p, state, Context{FrameBudgetMs: 50, Urgent: true}, 200)
	if got := p.CurrentPlan().LookaheadDepth; got > 8 {
		t.Fatalf("urgent planning reached depth %d, want base_depth reduced by 2 (<=8)", got)
	}
}

func TestPlanStepCancelLeavesPlanIncomplete(t *testing.T) {
	p := newTestPlanner(t, func(c search.Config) search.Config {
		c.BaseDepth = 16
		c.MaxDepth = 16
		c.AdaptiveDepth = false
		return c
	})
	state := &subState{stones: 9, agent: 0}

	// Drive it with a deliberately tiny frame budget so it's still
	// mid-search (not yet naturally done) after a bounded number of
	// steps, giving Cancel something real to interrupt.
	var done bool
	for i := 0; i < 20 && !done; i++ {
		done = p.PlanStep(state, subHeuristic{}, Context{FrameBudgetMs: 0.001})
	}
	if done {
		t.Skip("search completed before it could be cancelled mid-flight")
	}
	if p.CurrentPlan().Primary == action.None {
		t.Fatal("expected at least one completed depth before cancelling")
	}
	knownPrimary := p.CurrentPlan().Primary

	p.Cancel()
	p.PlanStep(state, subHeuristic{}, Context{FrameBudgetMs: 5})

	plan := p.CurrentPlan()
	if plan.Completed {
		t.Fatal("expected a cancelled plan to report Completed == false")
	}
	if plan.Primary != knownPrimary {
		t.Fatalf("expected the last known primary action %+v to be preserved, got %+v", knownPrimary, plan.Primary)
	}
}

func TestPlanStepAppliesVerificationOnHighEntropyRoot(t *testing.T) {
	p := newTestPlanner(t, func(c search.Config) search.Config {
		c.LowEntropy = qfixed.FromInt(-1)
		c.HighEntropy = qfixed.ZERO
		return c
	})
	state := &subState{stones: 5, agent: 0}
	runPlanToCompletion(t, p, state, Context{FrameBudgetMs: 5}, 200)

	plan := p.CurrentPlan()
	if !plan.VerificationApplied {
		t.Fatal("expected a root entropy above high_entropy to trigger MCTS verification")
	}
}

func TestPlanStepSkipsVerificationBelowHighEntropy(t *testing.T) {
	p := newTestPlanner(t, nil)
	state := &subState{stones: 5, agent: 0}
	runPlanToCompletion(t, p, state, Context{FrameBudgetMs: 5}, 200)

	plan := p.CurrentPlan()
	if plan.VerificationApplied {
		t.Fatal("expected the default high_entropy threshold not to trigger verification on this fixture")
	}
}

func TestEntropyTrendTracksRisingRootEntropy(t *testing.T) {
	p := newTestPlanner(t, nil)

	runPlanToCompletion(t, p, &subState{stones: 1, agent: 0}, Context{FrameBudgetMs: 5}, 200)
	first := p.EntropyTrend()

	runPlanToCompletion(t, p, &subState{stones: 5, agent: 0}, Context{FrameBudgetMs: 5}, 200)
	second := p.EntropyTrend()

	if second <= first {
		t.Fatalf("EntropyTrend should rise after a root with more legal actions follows one with fewer: first=%v second=%v", first, second)
	}
}
