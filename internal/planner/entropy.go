package planner

import "tacticore/internal/qfixed"

// entropyHistoryCap bounds how many plans' worth of root entropy an
// entropyGradient remembers, matching the corpus's EntropyGradient
// dataclass's capped history.
const entropyHistoryCap = 100

// entropyGradient tracks how a planner's measured root entropy moves
// from one plan to the next: current/previous/gradient plus a capped
// history whose least-squares slope is exposed as trend. It is
// diagnostic only — nothing here feeds back into a search decision or
// alters spec §4.J's confidence formula; it exists to report the same
// "is this position getting sharper or vaguer" signal the corpus's
// adaptive-depth kernel computes to decide how hard to widen a search.
type entropyGradient struct {
	current, previous, gradient float64
	history                     []float64
}

// update folds a newly-measured root entropy into the gradient, shifting
// current into previous the way a new plan's root entropy supersedes the
// last plan's.
func (g *entropyGradient) update(entropy qfixed.Q) {
	e := entropy.ToFloatForLoggingOnly()
	g.previous = g.current
	g.current = e
	g.gradient = g.current - g.previous
	g.history = append(g.history, e)
	if len(g.history) > entropyHistoryCap {
		g.history = g.history[len(g.history)-entropyHistoryCap:]
	}
}

// trend is the least-squares slope of the full history window: positive
// means entropy has been rising across recent plans (the position is
// getting less certain), negative means it has been falling.
func (g *entropyGradient) trend() float64 {
	n := len(g.history)
	if n < 2 {
		return 0
	}
	xMean := float64(n-1) / 2
	var yMean float64
	for _, v := range g.history {
		yMean += v
	}
	yMean /= float64(n)

	var num, den float64
	for i, v := range g.history {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
