package search

import (
	"tacticore/internal/action"
	"tacticore/internal/qfixed"
)

// nimState is a tiny deterministic two-player subtraction game used only
// by this package's tests: each move removes 1-3 stones, and whoever is
// left facing zero stones loses. Perfect play is well understood (a
// position is lost for the player to move iff stones%4==0), which makes
// it a convenient way to check the engine actually finds a winning line
// rather than merely returning some legal move.
type nimState struct {
	stones int
	agent  int32
}

func (n *nimState) Hash() uint64 { return uint64(n.stones)<<1 | uint64(n.agent) }

func (n *nimState) LegalActions() []action.Action {
	var moves []action.Action
	max := 3
	if n.stones < max {
		max = n.stones
	}
	for take := 1; take <= max; take++ {
		moves = append(moves, action.Action{ActionID: uint32(take - 1), Payload: int32(take)})
	}
	return moves
}

func (n *nimState) Apply(a action.Action) (GameState, error) {
	return &nimState{stones: n.stones - int(a.Payload), agent: 1 - n.agent}, nil
}

func (n *nimState) IsTerminal() bool        { return n.stones == 0 }
func (n *nimState) TerminalValue() qfixed.Q { return qfixed.FromInt(-1) }
func (n *nimState) ActiveAgentID() int32    { return n.agent }
func (n *nimState) Clone() GameState        { c := *n; return &c }

type nimHeuristic struct{}

func (nimHeuristic) Evaluate(s GameState) qfixed.Q {
	ns := s.(*nimState)
	if ns.stones%4 == 0 {
		return qfixed.FromFloatAtConstructionOnly(-0.1)
	}
	return qfixed.FromFloatAtConstructionOnly(0.1)
}

var errDidNotComplete = &nimTestError{"search did not complete within the step budget"}

type nimTestError struct{ msg string }

func (e *nimTestError) Error() string { return e.msg }

func runToCompletion(e *Engine, maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		done, err := e.SearchStep()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return errDidNotComplete
}
