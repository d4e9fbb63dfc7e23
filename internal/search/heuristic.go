package search

import (
	"math"

	"tacticore/internal/action"
	"tacticore/internal/qfixed"
)

// Feature is one named, weighted term of a HeuristicSet.
type Feature struct {
	Name    string
	Weight  qfixed.Q
	Extract func(s GameState) qfixed.Q
}

// HeuristicSet is the default Evaluator/ActionEvaluator/EntropyEvaluator:
// a weighted sum of bounded features, normalized by the sum of absolute
// weights and clamped to [-1, 1].
type HeuristicSet struct {
	Features []Feature
}

// Evaluate implements the three-step state evaluation: terminal states
// short-circuit to their own terminal value, an empty feature list
// evaluates to ZERO, and otherwise the weighted sum of features is
// normalized and clamped.
func (hs *HeuristicSet) Evaluate(s GameState) qfixed.Q {
	if s.IsTerminal() {
		return s.TerminalValue()
	}
	if len(hs.Features) == 0 {
		return qfixed.ZERO
	}
	var sum, weightSum qfixed.Q
	for _, f := range hs.Features {
		sum = sum.Add(f.Weight.Mul(f.Extract(s)))
		weightSum = weightSum.Add(f.Weight.Abs())
	}
	if weightSum == qfixed.ZERO {
		return qfixed.ZERO
	}
	return qfixed.Clamp(sum.Div(weightSum), qfixed.FromInt(-1), qfixed.ONE)
}

// defaultPriorBase and its flag bonuses compute a prior for an
// action the heuristic set has no feature-driven opinion about yet.
const (
	defaultPriorBase    = 0.5
	defaultPriorCapture = 0.2
	defaultPriorForcing = 0.15
)

// EvaluateAction fills a prior for actions that don't already carry one
// (Prior == ZERO): a base score nudged up for captures and forcing
// moves, clamped to [-1, 1]. HeuristicSet has no feature-driven opinion
// on individual actions, so this is always the default formula.
func (hs *HeuristicSet) EvaluateAction(s GameState, a action.Action) qfixed.Q {
	return defaultActionPrior(a)
}

func defaultActionPrior(a action.Action) qfixed.Q {
	if a.Prior != qfixed.ZERO {
		return a.Prior
	}
	v := defaultPriorBase
	if a.IsCapture() {
		v += defaultPriorCapture
	}
	if a.IsForcing() {
		v += defaultPriorForcing
	}
	q := qfixed.FromFloatAtConstructionOnly(v)
	return qfixed.Clamp(q, qfixed.FromInt(-1), qfixed.ONE)
}

// CalculateEntropy computes the Shannon entropy of the prior distribution
// over s's legal actions, normalized by total prior mass. When the
// actions carry no usable prior (total <= 0), entropy falls back to
// ln(N), the maximum-entropy case for N equiprobable actions. Entropy is
// used only to steer the adaptive depth policy, never a stored
// evaluation, so its float64 arithmetic never affects determinism of a
// chosen action.
func (hs *HeuristicSet) CalculateEntropy(s GameState) qfixed.Q {
	return defaultEntropy(s.LegalActions())
}

// defaultEntropy computes the Shannon entropy of moves' priors, falling
// back to ln(N) when no move carries usable prior mass. It backs both
// HeuristicSet.CalculateEntropy and the engine's own fallback when a
// heuristic doesn't implement EntropyEvaluator at all.
func defaultEntropy(moves []action.Action) qfixed.Q {
	n := len(moves)
	if n == 0 {
		return qfixed.ZERO
	}
	priors := make([]float64, n)
	var total float64
	for i, m := range moves {
		p := defaultActionPrior(m).ToFloatForLoggingOnly()
		if p < 0 {
			p = 0
		}
		priors[i] = p
		total += p
	}
	if total <= 0 {
		return qfixed.FromFloatAtConstructionOnly(math.Log(float64(n)))
	}
	var entropy float64
	for _, p := range priors {
		if p <= 0 {
			continue
		}
		pn := p / total
		entropy -= pn * math.Log(pn)
	}
	return qfixed.FromFloatAtConstructionOnly(entropy)
}

// PhaseSelector classifies a state into a named phase, letting a
// HeuristicsByPhase route evaluation to a phase-specific feature set.
type PhaseSelector interface {
	Phase(s GameState) string
}

// HeuristicsByPhase dispatches to one HeuristicSet among several based
// on a PhaseSelector, falling back to Default when the selector names a
// phase with no registered set (or when Selector is nil).
type HeuristicsByPhase struct {
	Default  *HeuristicSet
	ByPhase  map[string]*HeuristicSet
	Selector PhaseSelector
}

func (h *HeuristicsByPhase) setFor(s GameState) *HeuristicSet {
	if h.Selector == nil {
		return h.Default
	}
	if set, ok := h.ByPhase[h.Selector.Phase(s)]; ok {
		return set
	}
	return h.Default
}

func (h *HeuristicsByPhase) Evaluate(s GameState) qfixed.Q              { return h.setFor(s).Evaluate(s) }
func (h *HeuristicsByPhase) EvaluateAction(s GameState, a action.Action) qfixed.Q {
	return h.setFor(s).EvaluateAction(s, a)
}
func (h *HeuristicsByPhase) CalculateEntropy(s GameState) qfixed.Q { return h.setFor(s).CalculateEntropy(s) }
