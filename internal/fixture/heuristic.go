package fixture

import (
	"tacticore/internal/qfixed"
	"tacticore/internal/search"
)

// NewHeuristic returns the default evaluator for an Arena: a single
// material-difference feature, normalized by the maximum possible piece
// count so it stays inside [-1, 1] the way HeuristicSet.Evaluate
// requires.
func NewHeuristic() *search.HeuristicSet {
	return &search.HeuristicSet{
		Features: []search.Feature{
			{
				Name:   "material",
				Weight: qfixed.ONE,
				Extract: func(s search.GameState) qfixed.Q {
					a := s.(*Arena)
					diff := a.PieceCount(a.agent) - a.PieceCount(1-a.agent)
					return qfixed.Clamp(
						qfixed.FromInt(diff).Div(qfixed.FromInt(ArenaCells/2)),
						qfixed.FromInt(-1),
						qfixed.ONE,
					)
				},
			},
		},
	}
}
