package search

import "tacticore/internal/qfixed"

// MaxPly bounds both the killer table and how far a mate score can be
// adjusted by ply without colliding with EvalInf.
const MaxPly = 128

// EvalSafetyMargin separates EvalInf from Q's true maximum, and EvalMate
// from EvalInf, so that alpha-beta window arithmetic (widening by a
// margin, negating a bound) never saturates into a sentinel by accident.
const EvalSafetyMargin qfixed.Q = 1000

// EvalInf is returned by nothing but bounds every real evaluation and
// every alpha-beta window; it must never appear as a stored value.
var EvalInf = qfixed.MAX - EvalSafetyMargin

// EvalMate is the base magnitude for a forced-win score. A mate found N
// plies from the node that reports it scores EvalMate-N (so shorter
// mates dominate longer ones under negamax maximization).
var EvalMate = EvalInf - EvalSafetyMargin

// mateThreshold is the boundary above which a Q value is treated as a
// mate-distance score rather than a normal evaluation in [-1, 1].
var mateThreshold = EvalMate - qfixed.Q(MaxPly)

// adjustTerminalForPly converts a terminal state's raw outcome value
// (typically qfixed.ONE, qfixed.ZERO, or -qfixed.ONE) into a mate-style
// score when the outcome is decisive, scaled so that reaching the same
// decisive outcome in fewer plies scores strictly higher. Draws and any
// other non-decisive value pass through unmodified.
func adjustTerminalForPly(v qfixed.Q, plyFromRoot int) qfixed.Q {
	switch v {
	case qfixed.ONE:
		return EvalMate.Sub(qfixed.Q(plyFromRoot))
	case qfixed.ONE.Neg():
		return EvalMate.Neg().Add(qfixed.Q(plyFromRoot))
	default:
		return v
	}
}

// isMateScore reports whether v is a mate-distance sentinel rather than
// a normal bounded evaluation.
func isMateScore(v qfixed.Q) bool {
	return v > mateThreshold || v < -mateThreshold
}
