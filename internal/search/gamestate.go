// Package search implements the deterministic, frame-budgeted game-tree
// search engine: the node/transposition-table layer, move ordering, the
// heuristic evaluator, and the alpha-beta/PVS driver itself. The package
// never depends on any concrete domain; it consumes game states only
// through the GameState capability set below.
package search

import (
	"errors"

	"tacticore/internal/action"
	"tacticore/internal/qfixed"
)

// GameState is the capability set every domain adapter must implement.
// Implementations must be side-effect free: Apply returns a new state and
// never mutates the receiver, since the engine freely re-applies actions
// while backtracking conceptually through recursion.
type GameState interface {
	// Hash is stable over the lifetime of this state instance and must
	// factor every field that alters legal actions or values.
	Hash() uint64
	// LegalActions returns actions in a deterministic order; ActionID
	// fields must be 0..N-1 in that order.
	LegalActions() []action.Action
	// Apply returns the state reached by playing action, which must be
	// one of the actions LegalActions returned.
	Apply(a action.Action) (GameState, error)
	IsTerminal() bool
	// TerminalValue is only meaningful when IsTerminal reports true.
	TerminalValue() qfixed.Q
	ActiveAgentID() int32
	Clone() GameState
}

// NullMoveState is an optional capability: a state that can produce the
// "pass" state null-move pruning needs. Adapters without a null-move
// concept simply don't implement it, and the engine disables null-move
// pruning for them regardless of configuration (spec's open question b).
type NullMoveState interface {
	ApplyNullMove() (GameState, error)
}

// Evaluator is the required heuristic capability: a callable producing a
// value in [-1, 1] for a state.
type Evaluator interface {
	Evaluate(s GameState) qfixed.Q
}

// ActionEvaluator is an optional heuristic capability used to compute
// action priors. When a heuristic doesn't implement it, the engine falls
// back to the default prior formula in spec §4.H.
type ActionEvaluator interface {
	EvaluateAction(s GameState, a action.Action) qfixed.Q
}

// EntropyEvaluator is an optional heuristic capability feeding the
// adaptive depth policy. When absent, the engine computes entropy itself
// from action priors (falling back to a uniform distribution).
type EntropyEvaluator interface {
	CalculateEntropy(s GameState) qfixed.Q
}

// OrdererProvider lets a heuristic adapter supply its own move orderer.
// When a heuristic doesn't implement it, the engine constructs a default
// Orderer.
type OrdererProvider interface {
	MoveOrderer() *Orderer
}

// Error taxonomy from spec §7. Every error here is recoverable by the
// caller; the engine never aborts the host.
var (
	ErrNoState         = errors.New("tacticore/search: no state")
	ErrNoHeuristics    = errors.New("tacticore/search: no heuristics")
	ErrNoLegalActions  = errors.New("tacticore/search: no legal actions")
	ErrConfigRejected  = errors.New("tacticore/search: configuration rejected")
	ErrAdapterFailure  = errors.New("tacticore/search: adapter apply failed")
)
