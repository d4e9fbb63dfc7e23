package search

import (
	"fmt"
	"sync/atomic"
	"time"

	"tacticore/internal/action"
	"tacticore/internal/qfixed"
)

// checkStopEveryNodes is how often alphaBeta re-checks the stop flag,
// mirroring the teacher's interval node-count check rather than reading
// a clock on every recursive call.
const checkStopEveryNodes = 2048

// Engine drives iterative-deepening alpha-beta over a GameState via a
// resumable SearchStep, so a host can slice a search across many frames.
// Each SearchStep call searches at least one root move, so a frame can
// overrun its budget by at most one root move's search. alphaBeta itself
// never consults a clock; only SearchStep's root-move loop does, and
// only between root moves, never mid-recursion.
type Engine struct {
	cfg      Config
	tt       *Table
	orderer  *Orderer
	heur     Evaluator

	root      GameState
	rootMoves []action.Action

	nodes   uint64
	stopped atomic.Bool

	startTime time.Time

	completedDepth int
	bestAction     action.Action
	bestValue      qfixed.Q
	pv             []action.Action

	// rootEntropy is the root's action-prior entropy, measured once per
	// BeginSearch; currentTargetDepth recomputes the adaptive-depth
	// policy's nominal stopping point from it on every check, so a later
	// SetConfig (e.g. a planner's urgent base_depth cut) takes effect
	// immediately rather than only at the next BeginSearch.
	rootEntropy qfixed.Q
	haveEntropy bool

	// rootNode shadows the root move loop with a Node tree, purely so
	// ranked alternatives (RootNode().TopChildren) are available to a
	// caller without re-deriving them from the flat root-move results.
	rootNode *Node

	// Resumable root-move-loop state for the depth currently in progress.
	curDepth    int
	curMoveIdx  int
	curAlpha    qfixed.Q
	curBeta     qfixed.Q
	curBest     qfixed.Q
	curBestIdx  int
	curPV       []action.Action
	orderedRoot []action.Action
	depthActive bool
}

// NewEngine validates cfg and constructs an Engine around it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		tt:      NewTable(cfg.TTSizeMB),
		orderer: NewOrderer(),
	}, nil
}

// SetConfig replaces the engine's configuration, rejecting invalid
// values and silently ignoring the call while an iterative-deepening
// depth is in progress; between depths the new values take effect. The
// transposition table is rebuilt only
// when its size changed.
func (e *Engine) SetConfig(cfg Config) error {
	if e.depthActive {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.TTSizeMB != e.cfg.TTSizeMB {
		e.tt = NewTable(cfg.TTSizeMB)
	}
	e.cfg = cfg
	return nil
}

func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) Nodes() uint64  { return e.nodes }

// TTHitRate reports the transposition table's hits/probes ratio over
// the lifetime of the table (not just the most recent search).
func (e *Engine) TTHitRate() float64 { return e.tt.HitRate() }

// RootEntropy reports the root's action-prior entropy measured at the
// start of the current search, or ZERO if AdaptiveDepth is off or no
// search has begun.
func (e *Engine) RootEntropy() qfixed.Q {
	if !e.haveEntropy {
		return qfixed.ZERO
	}
	return e.rootEntropy
}

// BestAction, BestValue and PV report the deepest completed iteration's
// result; they're stable until the next completed SearchStep.
func (e *Engine) BestAction() action.Action { return e.bestAction }
func (e *Engine) BestValue() qfixed.Q       { return e.bestValue }
func (e *Engine) PV() []action.Action       { return e.pv }
func (e *Engine) CompletedDepth() int       { return e.completedDepth }

// RootNode exposes the shadow Node tree accumulated over the root moves
// searched so far, for callers that want ranked alternatives via
// RootNode().TopChildren rather than just the single chosen action.
func (e *Engine) RootNode() *Node { return e.rootNode }

// Cancel requests that the current and any future SearchStep stop as
// soon as alphaBeta next checks its stop flag.
func (e *Engine) Cancel() { e.stopped.Store(true) }

// Stopped reports whether the stop flag is set, distinguishing a search
// that concluded because it was cancelled or timed out from one that
// reached its target depth, max depth, or a mate score on its own.
func (e *Engine) Stopped() bool { return e.stopped.Load() }

// ResetOrdering clears the killer and history tables, discarding
// move-ordering state accumulated against a now-irrelevant root.
func (e *Engine) ResetOrdering() { e.orderer.Clear() }

// BeginSearch resets the engine onto a new root state and heuristic
// evaluator, ready for repeated SearchStep calls.
func (e *Engine) BeginSearch(root GameState, heur Evaluator) error {
	if root == nil {
		return ErrNoState
	}
	if heur == nil {
		return ErrNoHeuristics
	}
	e.root = root
	e.heur = heur
	if provider, ok := heur.(OrdererProvider); ok {
		if custom := provider.MoveOrderer(); custom != nil {
			e.orderer = custom
		}
	}
	e.nodes = 0
	e.stopped.Store(false)
	e.startTime = time.Now()
	e.completedDepth = 0
	e.bestAction = action.None
	e.bestValue = qfixed.ZERO
	e.pv = nil
	e.curDepth = 1
	e.curMoveIdx = 0
	e.depthActive = false
	e.rootNode = NewRoot(root.Hash())
	e.haveEntropy = false
	if e.cfg.AdaptiveDepth && !root.IsTerminal() {
		if entropyEval, ok := heur.(EntropyEvaluator); ok {
			e.rootEntropy = entropyEval.CalculateEntropy(root)
		} else {
			e.rootEntropy = defaultEntropy(root.LegalActions())
		}
		e.haveEntropy = true
	}

	if root.IsTerminal() {
		e.bestValue = root.TerminalValue()
		e.rootMoves = nil
		return nil
	}
	moves := root.LegalActions()
	if len(moves) == 0 {
		return ErrNoLegalActions
	}
	e.rootMoves = moves
	return nil
}

// SearchStep performs one frame's worth of work: it resumes the
// in-progress root-move loop (or starts the next iterative-deepening
// depth) and returns once either the frame budget is spent or the whole
// search has concluded (done == true).
func (e *Engine) SearchStep() (done bool, err error) {
	if e.root == nil {
		return true, ErrNoState
	}
	if e.root.IsTerminal() || len(e.rootMoves) == 0 {
		if e.root.IsTerminal() {
			return true, nil
		}
		return true, ErrNoLegalActions
	}

	frameDeadline := time.Now().Add(time.Duration(e.cfg.FrameBudgetMs * float64(time.Millisecond)))
	searchedOne := false

	for {
		if e.stopped.Load() {
			return true, nil
		}
		if e.cfg.TimeLimitMs > 0 && time.Since(e.startTime) >= time.Duration(e.cfg.TimeLimitMs)*time.Millisecond {
			e.stopped.Store(true)
			return true, nil
		}
		if e.curDepth > e.cfg.MaxDepth {
			return true, nil
		}

		if !e.depthActive {
			e.beginDepth(e.curDepth)
		}

		for e.curMoveIdx < len(e.orderedRoot) {
			if searchedOne && time.Now().After(frameDeadline) {
				return false, nil
			}
			if e.stopped.Load() {
				return true, nil
			}
			restart, applyErr := e.stepRootMove()
			searchedOne = true
			if applyErr != nil {
				return true, applyErr
			}
			if restart {
				break // aspiration re-search restarted this depth
			}
		}

		if e.curMoveIdx >= len(e.orderedRoot) {
			e.finishDepth()
			if isMateScore(e.bestValue) {
				return true, nil
			}
			if e.curDepth > e.cfg.MaxDepth {
				return true, nil
			}
			if e.curDepth > e.currentTargetDepth() {
				return true, nil
			}
		}
	}
}

func (e *Engine) beginDepth(depth int) {
	var hashMove *action.Action
	if entry, ok := e.tt.Probe(e.root.Hash()); ok {
		hashMove = &entry.BestAction
	}
	e.orderedRoot = e.orderer.Order(e.rootMoves, 0, hashMove)
	e.curMoveIdx = 0
	e.curBestIdx = -1
	e.curPV = nil

	if e.cfg.UseAspirationWindows && e.completedDepth > 0 {
		e.curAlpha = e.bestValue.Sub(e.cfg.AspirationWindow)
		e.curBeta = e.bestValue.Add(e.cfg.AspirationWindow)
	} else {
		e.curAlpha = -EvalInf
		e.curBeta = EvalInf
	}
	e.curBest = -EvalInf
	e.depthActive = true
}

// stepRootMove searches exactly one root move at the current depth,
// folding its value into the running best. It returns restart == true
// when an aspiration-window failure forced the whole depth to restart
// with a wider window, and a non-nil error (wrapping ErrAdapterFailure)
// if the adapter violated its contract by failing to apply a move
// LegalActions itself returned.
func (e *Engine) stepRootMove() (restart bool, err error) {
	move := e.orderedRoot[e.curMoveIdx]
	child, applyErr := e.root.Apply(move)
	if applyErr != nil {
		return false, fmt.Errorf("%w: %v", ErrAdapterFailure, applyErr)
	}

	var childPV []action.Action
	var value qfixed.Q
	if e.curMoveIdx == 0 {
		value = -e.alphaBeta(child, e.curDepth-1, -e.curBeta, -e.curAlpha, 1, false, &childPV)
	} else {
		value = -e.alphaBeta(child, e.curDepth-1, -e.curAlpha.Add(1), -e.curAlpha, 1, false, &childPV)
		if value > e.curAlpha && value < e.curBeta {
			childPV = nil
			value = -e.alphaBeta(child, e.curDepth-1, -e.curBeta, -e.curAlpha, 1, false, &childPV)
		}
	}

	if e.cfg.UseAspirationWindows && e.completedDepth > 0 && ((e.curMoveIdx == 0 && value <= e.curAlpha) || value >= e.curBeta) {
		e.widenAspiration(value)
		e.curMoveIdx = 0
		e.curBest = -EvalInf
		e.curBestIdx = -1
		return true, nil
	}

	e.curMoveIdx++
	if value > e.curBest {
		e.curBest = value
		e.curBestIdx = e.curMoveIdx - 1
		e.curPV = append([]action.Action{move}, childPV...)
	}
	if e.curBest > e.curAlpha {
		e.curAlpha = e.curBest
	}

	node := e.rootNode.FindChild(move)
	if node == nil {
		node = e.rootNode.AddChild(move, child.Hash())
	}
	node.RecordVisit(value)

	return false, nil
}

func (e *Engine) widenAspiration(failedValue qfixed.Q) {
	if failedValue <= e.curAlpha {
		e.curAlpha = -EvalInf
	}
	if failedValue >= e.curBeta {
		e.curBeta = EvalInf
	}
	if e.curAlpha < -EvalInf {
		e.curAlpha = -EvalInf
	}
	if e.curBeta > EvalInf {
		e.curBeta = EvalInf
	}
}

func (e *Engine) finishDepth() {
	e.completedDepth = e.curDepth
	e.bestValue = e.curBest
	e.pv = e.curPV
	if e.curBestIdx >= 0 {
		e.bestAction = e.orderedRoot[e.curBestIdx]
	}
	e.tt.Store(Entry{
		StateHash:  e.root.Hash(),
		Value:      e.curBest,
		BestAction: e.bestAction,
		Depth:      int32(e.curDepth),
		Type:       Exact,
	})
	e.orderer.AgeHistory()
	e.curDepth++
	e.depthActive = false
}

// currentTargetDepth implements the adaptive-depth policy against the
// entropy value BeginSearch measured once: a sharply peaked distribution
// (entropy below low_entropy) raises the target by two over base_depth;
// a flat, contested distribution (entropy above high_entropy) lowers it
// by two, never below a floor of 4. It reads
// e.cfg.BaseDepth live, so a SetConfig between depths (a planner's
// urgent base_depth cut) changes the stopping point on the very next
// check, never less than the depth already reached.
func (e *Engine) currentTargetDepth() int {
	if !e.cfg.AdaptiveDepth || !e.haveEntropy {
		return e.cfg.BaseDepth
	}
	switch {
	case e.rootEntropy < e.cfg.LowEntropy:
		return e.cfg.BaseDepth + 2
	case e.rootEntropy > e.cfg.HighEntropy:
		target := e.cfg.BaseDepth - 2
		if target < 4 {
			target = 4
		}
		return target
	default:
		return e.cfg.BaseDepth
	}
}
