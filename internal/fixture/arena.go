// Package fixture implements a minimal grid "tactical arena" GameState
// adapter: the domain-trivial two-agent capture game used by the core's
// property tests and by cmd/tacticore-demo. It carries no rules engine
// and no UI — the real adapter spec.md names is out of scope, described
// only as a collaborator through search.GameState's interface, and this
// is just enough of one to exercise every operation that interface
// requires.
package fixture

import (
	"tacticore/internal/action"
	"tacticore/internal/qfixed"
	"tacticore/internal/search"
)

// Size is the arena's side length; ArenaCells is its total cell count.
const (
	Size       = 4
	ArenaCells = Size * Size
)

// Cell occupant values.
const (
	cellEmpty = iota
	cellAgentZero
	cellAgentOne
)

// direction offsets tried in this fixed order, so LegalActions is
// deterministic without any further sorting.
var directions = [4][2]int{
	{-1, 0}, // up
	{1, 0},  // down
	{0, -1}, // left
	{0, 1},  // right
}

// Arena is a Size x Size grid where two agents each control pieces that
// move one cell orthogonally per turn, capturing by moving onto a cell
// the opponent occupies. An agent with no legal move (no pieces left, or
// every piece blocked) has lost.
type Arena struct {
	cells [ArenaCells]byte
	agent int32
}

// NewArena returns the starting position: agent 0's two pieces on the
// bottom row, agent 1's two pieces on the top row, agent 0 to move.
func NewArena() *Arena {
	a := &Arena{agent: 0}
	a.cells[cell(0, 1)] = cellAgentOne
	a.cells[cell(0, 2)] = cellAgentOne
	a.cells[cell(Size-1, 1)] = cellAgentZero
	a.cells[cell(Size-1, 2)] = cellAgentZero
	return a
}

func cell(row, col int) int { return row*Size + col }

func rowCol(c int) (row, col int) { return c / Size, c % Size }

func agentOccupant(agent int32) byte {
	if agent == 0 {
		return cellAgentZero
	}
	return cellAgentOne
}

func opponentOccupant(agent int32) byte {
	if agent == 0 {
		return cellAgentOne
	}
	return cellAgentZero
}

// PieceCount returns how many cells agent occupies.
func (a *Arena) PieceCount(agent int32) int {
	occ := agentOccupant(agent)
	n := 0
	for _, c := range a.cells {
		if c == occ {
			n++
		}
	}
	return n
}

// Hash XORs in a Zobrist-style key per occupied cell plus a side-to-move
// key, built once at init from a fixed-seed xorshift64* stream.
func (a *Arena) Hash() uint64 {
	var h uint64
	for i, c := range a.cells {
		switch c {
		case cellAgentZero:
			h ^= zobristCell[i][occupantAgentZero]
		case cellAgentOne:
			h ^= zobristCell[i][occupantAgentOne]
		}
	}
	if a.agent == 1 {
		h ^= zobristToMove
	}
	return h
}

// LegalActions enumerates every move of every piece the active agent
// controls, in row-major cell order and fixed direction order, so two
// calls against equal states always produce equal lists.
func (a *Arena) LegalActions() []action.Action {
	own := agentOccupant(a.agent)
	opp := opponentOccupant(a.agent)

	var moves []action.Action
	for from, occ := range a.cells {
		if occ != own {
			continue
		}
		row, col := rowCol(from)
		for _, d := range directions {
			nr, nc := row+d[0], col+d[1]
			if nr < 0 || nr >= Size || nc < 0 || nc >= Size {
				continue
			}
			to := cell(nr, nc)
			target := a.cells[to]
			if target == own {
				continue
			}
			var flags uint32
			if target == opp {
				flags |= action.FlagCapture
				if a.wouldLeaveOneOrFewer(opp, to) {
					flags |= action.FlagForcing
				}
			}
			var staticScore qfixed.Q
			if flags&action.FlagCapture != 0 {
				staticScore = qfixed.ONE
			}
			moves = append(moves, action.Action{
				ActionID:    uint32(len(moves)),
				From:        uint32(from),
				To:          uint32(to),
				TypeFlags:   flags,
				StaticScore: staticScore,
			})
		}
	}
	return moves
}

// wouldLeaveOneOrFewer reports whether capturing the piece at
// capturedCell would leave opponent with at most one piece remaining —
// the fixture's stand-in for "forcing", the way a capture threatening
// checkmate would be in a real domain.
func (a *Arena) wouldLeaveOneOrFewer(opponent byte, capturedCell int) bool {
	remaining := 0
	for i, c := range a.cells {
		if c == opponent && i != capturedCell {
			remaining++
		}
	}
	return remaining <= 1
}

// Apply is a total function over any action LegalActions returned: the
// moving piece vacates From, occupies To (overwriting whatever piece was
// there), and the turn passes to the other agent.
func (a *Arena) Apply(mv action.Action) (search.GameState, error) {
	next := *a
	next.cells[mv.From] = cellEmpty
	next.cells[mv.To] = agentOccupant(a.agent)
	next.agent = 1 - a.agent
	return &next, nil
}

// ApplyNullMove passes the turn without moving any piece, the "skip a
// turn" state null-move pruning needs.
func (a *Arena) ApplyNullMove() (search.GameState, error) {
	next := *a
	next.agent = 1 - a.agent
	return &next, nil
}

// IsTerminal reports whether the active agent has no legal move, whether
// because every one of its pieces was captured or because its remaining
// pieces are all blocked.
func (a *Arena) IsTerminal() bool {
	return len(a.LegalActions()) == 0
}

// TerminalValue is only meaningful when IsTerminal reports true: the
// active agent with no legal move has lost.
func (a *Arena) TerminalValue() qfixed.Q {
	return qfixed.ONE.Neg()
}

func (a *Arena) ActiveAgentID() int32 { return a.agent }

func (a *Arena) Clone() search.GameState {
	c := *a
	return &c
}
