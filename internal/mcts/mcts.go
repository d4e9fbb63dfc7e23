// Package mcts implements a bounded Monte Carlo Tree Search used as a
// verification fallback for positions whose root action-prior entropy is
// high enough that the primary alpha-beta line is less trustworthy: a
// second, independently-structured search mode cross-checks the chosen
// value before a planner commits to it. It never runs unconditionally;
// internal/planner invokes Search only above its configured high-entropy
// threshold, and blends the result rather than replacing the primary
// search's output.
//
// Selection uses the PUCT-style formula q + c_puct*prior*sqrt(parentVisits)
// / (1+visits). Unlike the corpus's exploration noise at the search root,
// this package adds none: two Search calls against an identical
// (state, Config) always walk the same tree and return the same result,
// since nothing here reads a clock or a random source.
package mcts

import (
	"math"

	"tacticore/internal/action"
	"tacticore/internal/ordered"
	"tacticore/internal/qfixed"
	"tacticore/internal/search"
)

// Config holds the simulation budget and exploration constant. There is
// deliberately no seed or noise knob: selection is pure function of
// visit counts and priors, so it needs nothing to randomize.
type Config struct {
	Simulations int
	Exploration qfixed.Q
}

// DefaultConfig matches the corpus's num_simulations/c_puct defaults,
// scaled down since this package runs as a bounded verification pass
// rather than a standalone search.
func DefaultConfig() Config {
	return Config{
		Simulations: 200,
		Exploration: qfixed.FromFloatAtConstructionOnly(1.5),
	}
}

// Result is the verification search's externally observable outcome.
type Result struct {
	Best   action.Action
	Value  qfixed.Q
	Visits map[action.Action]uint32
}

type node struct {
	parent   *node
	state    search.GameState
	children *ordered.Map[action.Action, *node]

	visits   uint32
	valueSum qfixed.Q
	prior    qfixed.Q

	expanded      bool
	terminal      bool
	terminalValue qfixed.Q
}

func newNode(parent *node, state search.GameState, prior qfixed.Q) *node {
	return &node{parent: parent, state: state, prior: prior}
}

func (n *node) qValue() qfixed.Q {
	if n.visits == 0 {
		return qfixed.ZERO
	}
	return n.valueSum.Div(qfixed.FromInt(int(n.visits)))
}

// Search runs cfg.Simulations simulations from root and selects the
// most-visited root child, matching the corpus's "visit count, not raw
// value, decides the move" convention. eval supplies both leaf values
// (Evaluator) and, when it implements search.ActionEvaluator, the priors
// expand uses in place of a uniform distribution over untried actions.
func Search(root search.GameState, eval search.Evaluator, cfg Config) Result {
	if cfg.Simulations <= 0 {
		cfg.Simulations = 1
	}
	r := newNode(nil, root, qfixed.ZERO)
	expand(r, eval)

	if r.terminal {
		return Result{Best: action.None, Value: r.terminalValue}
	}
	if r.children.Len() == 0 {
		return Result{Best: action.None, Value: eval.Evaluate(root)}
	}

	for i := 0; i < cfg.Simulations; i++ {
		leaf := selectToLeaf(r, cfg.Exploration)
		if !leaf.expanded {
			expand(leaf, eval)
		}
		value := leafValue(leaf, eval)
		backpropagate(leaf, value)
	}

	return bestByVisits(r)
}

// selectToLeaf walks child links from n, each step choosing the highest-
// PUCT-scoring child, until it reaches a node that hasn't been expanded
// yet (or a terminal node, which has no children to select among).
func selectToLeaf(n *node, c qfixed.Q) *node {
	cur := n
	for cur.expanded && !cur.terminal && cur.children.Len() > 0 {
		cur = selectChild(cur, c)
	}
	return cur
}

func selectChild(n *node, c qfixed.Q) *node {
	sqrtParent := math.Sqrt(float64(n.visits))
	cf := c.ToFloatForLoggingOnly()

	var best *node
	var bestScore float64
	n.children.Each(func(_ action.Action, child *node) {
		q := child.qValue().ToFloatForLoggingOnly()
		ucb := q + cf*child.prior.ToFloatForLoggingOnly()*sqrtParent/float64(1+child.visits)
		if best == nil || ucb > bestScore {
			best = child
			bestScore = ucb
		}
	})
	return best
}

// expand marks n terminal or populates its children from the state's
// legal actions, in the deterministic order LegalActions returns them.
func expand(n *node, eval search.Evaluator) {
	n.expanded = true
	if n.state.IsTerminal() {
		n.terminal = true
		n.terminalValue = n.state.TerminalValue()
		return
	}
	moves := n.state.LegalActions()
	if len(moves) == 0 {
		n.terminal = true
		n.terminalValue = qfixed.ZERO
		return
	}

	actionEval, hasActionEval := eval.(search.ActionEvaluator)
	uniform := qfixed.FromInt(1).Div(qfixed.FromInt(len(moves)))

	n.children = ordered.NewMap[action.Action, *node]()
	for _, m := range moves {
		child, err := n.state.Apply(m)
		if err != nil {
			continue
		}
		prior := m.Prior
		if prior == qfixed.ZERO {
			if hasActionEval {
				prior = actionEval.EvaluateAction(n.state, m)
			} else {
				prior = uniform
			}
		}
		n.children.Set(m, newNode(n, child, prior))
	}
}

// leafValue evaluates an expanded non-terminal leaf via eval, or returns
// the terminal value a terminal leaf already carries.
func leafValue(n *node, eval search.Evaluator) qfixed.Q {
	if n.terminal {
		return n.terminalValue
	}
	return eval.Evaluate(n.state)
}

// backpropagate folds value into every node on the path from leaf to the
// root, negating at each step the way negamax climbs a tree where each
// level is the opposing agent's perspective.
func backpropagate(leaf *node, value qfixed.Q) {
	v := value
	for cur := leaf; cur != nil; cur = cur.parent {
		cur.visits++
		cur.valueSum = cur.valueSum.Add(v)
		v = -v
	}
}

// bestByVisits selects the root's most-visited child, breaking ties in
// favour of the child inserted first (the order Each walks children in,
// which is LegalActions order).
func bestByVisits(root *node) Result {
	visits := make(map[action.Action]uint32, root.children.Len())
	var best action.Action
	var bestNode *node
	var bestVisits uint32
	root.children.Each(func(a action.Action, child *node) {
		visits[a] = child.visits
		if bestNode == nil || child.visits > bestVisits {
			best = a
			bestNode = child
			bestVisits = child.visits
		}
	})
	value := qfixed.ZERO
	if bestNode != nil {
		value = -bestNode.qValue()
	}
	return Result{Best: best, Value: value, Visits: visits}
}
