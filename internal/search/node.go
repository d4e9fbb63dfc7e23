package search

import (
	"math"
	"sort"

	"tacticore/internal/action"
	"tacticore/internal/qfixed"
)

// Node flag bits.
const (
	FlagExpanded uint8 = 1 << iota
	FlagTerminal
	FlagPruned
	FlagFullyEvaluated
	FlagOnPV
	FlagTransposition
)

// Node is one vertex of the search tree. A Node owns its children: no
// two nodes ever share a child, and destroying a node (dropping every
// reference to it) destroys its whole subtree. The parent link is a
// weak back-reference only, never used to keep a node alive.
type Node struct {
	parent   *Node
	children []*Node

	Reached   action.Action // the action that produced this node from its parent; zero Action at the root
	Value     qfixed.Q
	ValueSum  qfixed.Q
	Visits    uint32
	Depth     uint32
	StateHash uint64
	flags     uint8
}

// NewRoot creates a root node (no parent, no reaching action).
func NewRoot(stateHash uint64) *Node {
	return &Node{StateHash: stateHash}
}

func (n *Node) SetFlag(f uint8)      { n.flags |= f }
func (n *Node) ClearFlag(f uint8)    { n.flags &^= f }
func (n *Node) HasFlag(f uint8) bool { return n.flags&f != 0 }

func (n *Node) Parent() *Node    { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// AddChild creates and inserts a new child, keeping n.children sorted by
// the action total order. reachedBy must not already be present among
// n's children.
func (n *Node) AddChild(reachedBy action.Action, stateHash uint64) *Node {
	child := &Node{parent: n, Reached: reachedBy, Depth: n.Depth + 1, StateHash: stateHash}
	idx := sort.Search(len(n.children), func(i int) bool {
		return !action.Less(n.children[i].Reached, reachedBy)
	})
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	return child
}

// FindChild returns the child reached by an action equal to a, or nil.
func (n *Node) FindChild(a action.Action) *Node {
	idx := sort.Search(len(n.children), func(i int) bool {
		return !action.Less(n.children[i].Reached, a)
	})
	if idx < len(n.children) && n.children[idx].Reached.Equal(a) {
		return n.children[idx]
	}
	return nil
}

// BestChild returns the child with the highest Value, breaking ties by
// preferring the child reached via the action that sorts first (since
// children are kept in action order, the first max found wins).
func (n *Node) BestChild() *Node {
	var best *Node
	for _, c := range n.children {
		if best == nil || c.Value > best.Value {
			best = c
		}
	}
	return best
}

// BestChildUCB selects among children by the standard UCB1 exploration
// formula, adjusted by the child's action prior. Unvisited children are
// preferred over visited ones and are themselves ordered by ascending
// action order (their natural position in n.children). This operation
// supports debug enumeration and is never consulted by the alpha-beta
// driver's own move selection, so the float64 arithmetic it uses never
// feeds a stored evaluation or a chosen principal variation.
func (n *Node) BestChildUCB(c qfixed.Q) *Node {
	if len(n.children) == 0 {
		return nil
	}
	for _, child := range n.children {
		if child.Visits == 0 {
			return child
		}
	}
	logParent := math.Log(float64(n.Visits))
	cf := c.ToFloatForLoggingOnly()
	var best *Node
	var bestScore float64
	for _, child := range n.children {
		avg := child.AverageValue().ToFloatForLoggingOnly()
		explore := cf * math.Sqrt(logParent/float64(child.Visits))
		priorBonus := cf * child.Reached.Prior.ToFloatForLoggingOnly()
		score := avg + explore + priorBonus
		if best == nil || score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

// RecordVisit folds a backed-up value into this node's statistics.
func (n *Node) RecordVisit(v qfixed.Q) {
	n.Visits++
	n.ValueSum = n.ValueSum.Add(v)
	if v > n.Value || n.Visits == 1 {
		n.Value = v
	}
}

// AverageValue is ValueSum / max(Visits, 1).
func (n *Node) AverageValue() qfixed.Q {
	visits := n.Visits
	if visits == 0 {
		visits = 1
	}
	return n.ValueSum.Div(qfixed.FromInt(int(visits)))
}

// PrincipalVariation walks BestChild links from n, collecting the
// reaching action of each step, up to maxLen actions.
func (n *Node) PrincipalVariation(maxLen int) []action.Action {
	var pv []action.Action
	cur := n
	for len(pv) < maxLen {
		next := cur.BestChild()
		if next == nil {
			break
		}
		pv = append(pv, next.Reached)
		cur = next
	}
	return pv
}

// DetachFromParent severs the link between n and its parent, removing n
// from the parent's child list without destroying n's own subtree. Used
// when reusing a subtree as the new root after an action is committed.
func (n *Node) DetachFromParent() {
	if n.parent == nil {
		return
	}
	p := n.parent
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// TopChildren returns up to n children ordered by descending Value,
// breaking ties by action order. It's used to surface ranked
// alternatives to a chosen best action without re-running the search.
func (n *Node) TopChildren(count int) []*Node {
	ranked := make([]*Node, len(n.children))
	copy(ranked, n.children)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if count < len(ranked) {
		ranked = ranked[:count]
	}
	return ranked
}
