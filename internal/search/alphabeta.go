package search

import (
	"sort"

	"tacticore/internal/action"
	"tacticore/internal/qfixed"
)

// nullMoveMinActions is the branching factor at or below which null-move
// pruning is skipped: in a nearly-forced position the null move's "skip
// a turn" assumption is too unreliable to trust.
const nullMoveMinActions = 5

// deltaPruningMargin is the quiescence delta-pruning slack added to a
// capture's static score before comparing against alpha.
var deltaPruningMargin = qfixed.FromFloatAtConstructionOnly(0.2)

// alphaBeta is fail-soft negamax with PVS, null-move pruning and late
// move reductions. It never reads a clock; SearchStep's root loop is the
// only place a frame or overall deadline is enforced. It does check a
// cheap atomic stop flag periodically so Cancel can still abort a
// long-running subtree promptly. time_limit_ms sets that flag only from
// SearchStep, before each root move, so it does not cut short a root
// move's subtree already being searched.
func (e *Engine) alphaBeta(s GameState, depth int, alpha, beta qfixed.Q, ply int, isNull bool, pv *[]action.Action) qfixed.Q {
	e.nodes++
	if e.nodes%checkStopEveryNodes == 0 && e.stopped.Load() {
		return qfixed.ZERO
	}

	if s.IsTerminal() {
		return adjustTerminalForPly(s.TerminalValue(), ply)
	}
	if depth <= 0 {
		return e.quiescence(s, alpha, beta, 0)
	}

	origAlpha := alpha
	hash := s.Hash()
	var hashMove *action.Action
	if entry, ok := e.tt.Probe(hash); ok {
		if entry.Depth >= int32(depth) {
			v := AdjustMateFromTT(entry.Value, ply)
			switch {
			case entry.Type == Exact:
				return v
			case entry.Type == LowerBound && v >= beta:
				return v
			case entry.Type == UpperBound && v <= alpha:
				return v
			}
		}
		// The stored best action still orders moves even when its depth
		// isn't deep enough to trust the stored bound.
		hashMove = &entry.BestAction
	}

	moves := s.LegalActions()
	if len(moves) == 0 {
		return qfixed.ZERO
	}

	if e.cfg.UseNullMove && !isNull && depth >= e.cfg.NullMoveReduction+1 && len(moves) > nullMoveMinActions {
		if nullable, ok := s.(NullMoveState); ok {
			if nullState, err := nullable.ApplyNullMove(); err == nil {
				reduced := depth - e.cfg.NullMoveReduction - 1
				if reduced < 0 {
					reduced = 0
				}
				score := -e.alphaBeta(nullState, reduced, -beta, -beta.Add(1), ply+1, true, nil)
				if score >= beta {
					return beta
				}
			}
		}
	}

	e.fillPriors(s, moves)
	ordered := e.orderer.Order(moves, ply, hashMove)

	best := -EvalInf
	var bestAction action.Action
	var bestPV []action.Action

	for i, m := range ordered {
		child, err := s.Apply(m)
		if err != nil {
			continue
		}

		value, childPV := e.searchMove(child, depth, i, m, alpha, beta, ply)

		if value > best {
			best = value
			bestAction = m
			bestPV = append([]action.Action{m}, childPV...)
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			if !m.IsCapture() {
				e.orderer.RecordKiller(m, ply)
				e.orderer.RecordHistory(m, depth)
			}
			break
		}
	}

	if pv != nil {
		*pv = bestPV
	}

	entryType := Exact
	switch {
	case best <= origAlpha:
		entryType = UpperBound
	case best >= beta:
		entryType = LowerBound
	}
	e.tt.Store(Entry{
		StateHash:  hash,
		Value:      AdjustMateToTT(best, ply),
		BestAction: bestAction,
		Depth:      int32(depth),
		Type:       entryType,
	})

	return best
}

// searchMove runs the PVS (and, where applicable, LMR) search for one
// move already applied to child, returning its negamax value from the
// parent's perspective and its PV tail.
func (e *Engine) searchMove(child GameState, depth, i int, m action.Action, alpha, beta qfixed.Q, ply int) (qfixed.Q, []action.Action) {
	reduction := lmrReduction(e.cfg.UseLMR, depth, i, m)

	if i == 0 {
		var pv []action.Action
		return -e.alphaBeta(child, depth-1, -beta, -alpha, ply+1, false, &pv), pv
	}

	if reduction > 0 {
		var pv []action.Action
		value := -e.alphaBeta(child, depth-1-reduction, -alpha.Add(1), -alpha, ply+1, false, &pv)
		if value <= alpha {
			return value, pv
		}
		// Exceeded alpha at reduced depth: re-search at full depth, still
		// a null window.
		pv = nil
		value = -e.alphaBeta(child, depth-1, -alpha.Add(1), -alpha, ply+1, false, &pv)
		if value > alpha && value < beta {
			pv = nil
			value = -e.alphaBeta(child, depth-1, -beta, -alpha, ply+1, false, &pv)
		}
		return value, pv
	}

	var pv []action.Action
	value := -e.alphaBeta(child, depth-1, -alpha.Add(1), -alpha, ply+1, false, &pv)
	if value > alpha && value < beta {
		pv = nil
		value = -e.alphaBeta(child, depth-1, -beta, -alpha, ply+1, false, &pv)
	}
	return value, pv
}

// lmrReduction implements the reduction table: 1 ply for i in [4,5], 2
// for [6,11], 3 for i>=12, and none below i=4, below depth 3, or for a
// capture/forcing move.
func lmrReduction(enabled bool, depth, i int, m action.Action) int {
	if !enabled || depth < 3 || i < 4 || m.IsCapture() || m.IsForcing() {
		return 0
	}
	switch {
	case i <= 5:
		return 1
	case i <= 11:
		return 2
	default:
		return 3
	}
}

// quiescence extends the search along captures only, until the position
// has none left to consider or quiescenceDepth is exhausted, so the
// static evaluation at the search horizon is never taken at a point
// where an immediate capture would swing it wildly (the horizon effect).
// Terminal states are handled by the evaluator's own contract (Evaluate
// returns a terminal state's own value), so quiescence never inspects
// IsTerminal directly.
func (e *Engine) quiescence(s GameState, alpha, beta qfixed.Q, qDepth int) qfixed.Q {
	e.nodes++
	if (e.nodes%checkStopEveryNodes == 0 && e.stopped.Load()) || qDepth >= e.cfg.QuiescenceDepth {
		return e.heur.Evaluate(s)
	}

	standPat := e.heur.Evaluate(s)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	captures := captureMoves(s.LegalActions())
	for _, m := range captures {
		if standPat.Add(m.StaticScore).Add(deltaPruningMargin) < alpha {
			continue
		}
		child, err := s.Apply(m)
		if err != nil {
			continue
		}
		value := -e.quiescence(child, -beta, -alpha, qDepth+1)
		if value >= beta {
			return beta
		}
		if value > alpha {
			alpha = value
		}
	}
	return alpha
}

// captureMoves returns only the capture actions from moves, sorted by
// descending static score (a stand-in for MVV-LVA ordering).
func captureMoves(moves []action.Action) []action.Action {
	var out []action.Action
	for _, m := range moves {
		if m.IsCapture() {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StaticScore > out[j].StaticScore })
	return out
}

// fillPriors assigns a default prior to any action still carrying the
// zero prior, using the heuristic's ActionEvaluator when it supplies
// one, or the built-in default formula otherwise.
func (e *Engine) fillPriors(s GameState, moves []action.Action) {
	evalAction, hasCustom := e.heur.(ActionEvaluator)
	for i := range moves {
		if moves[i].Prior != qfixed.ZERO {
			continue
		}
		if hasCustom {
			moves[i].Prior = evalAction.EvaluateAction(s, moves[i])
		} else {
			moves[i].Prior = defaultActionPrior(moves[i])
		}
	}
}
