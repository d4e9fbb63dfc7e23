// Package blackboard gives concrete shape to the "shared insertion-ordered
// blackboard" spec §5 names as a collaborator for coordinated multi-agent
// search without making it part of the core contract: separate planners
// still never share state, but each may post an advisory value here for
// another planner (or a host) to read, keyed by a caller-chosen subspace
// name and kept in the order those values were posted.
package blackboard

import (
	"tacticore/internal/action"
	"tacticore/internal/ordered"
	"tacticore/internal/qfixed"
)

// Advisory is one posted value: a planner's opinion of a subspace, with
// enough provenance that a reader can judge how much to trust it.
type Advisory struct {
	Subspace   string
	Value      qfixed.Q
	Confidence qfixed.Q
}

// Board is an insertion-ordered store of advisories, one slot per
// subspace name (a later post to the same name overwrites the value in
// place, same as ordered.Map.Set).
type Board struct {
	advisories *ordered.Map[string, Advisory]
}

// New creates an empty Board.
func New() *Board {
	return &Board{advisories: ordered.NewMap[string, Advisory]()}
}

// Post records or replaces the advisory for subspace.
func (b *Board) Post(subspace string, value, confidence qfixed.Q) {
	b.advisories.Set(subspace, Advisory{Subspace: subspace, Value: value, Confidence: confidence})
}

// Read returns the advisory posted for subspace, if any.
func (b *Board) Read(subspace string) (Advisory, bool) {
	return b.advisories.Find(subspace)
}

// Each walks every advisory in posting order.
func (b *Board) Each(fn func(Advisory)) {
	b.advisories.Each(func(_ string, a Advisory) { fn(a) })
}

// Len reports how many subspaces currently hold an advisory.
func (b *Board) Len() int { return b.advisories.Len() }

// Subspace names a Split's partitions. Tactical covers captures and
// forcing actions; Positional covers everything else. This generalizes
// the corpus's file-based kingside/queenside/tactical/positional split
// to a domain where "kingside" has no meaning but FlagCapture/FlagForcing
// already do.
const (
	SubspaceTactical   = "tactical"
	SubspacePositional = "positional"
)

// Priority is each named subspace's fixed weight, carried over from the
// corpus's subspace priority values (tactical weighted above
// positional, since a forcing line is more likely to decide the
// position than a quiet one).
var Priority = map[string]qfixed.Q{
	SubspaceTactical:   qfixed.FromFloatAtConstructionOnly(1.5),
	SubspacePositional: qfixed.FromFloatAtConstructionOnly(0.8),
}

// Subspace is one partition of a legal-action list: a name, the actions
// it contains, a fixed priority, and the names of subspaces it depends
// on (a reader may want to resolve a dependency's advisory before
// trusting this one).
type Subspace struct {
	Name         string
	Actions      []action.Action
	Priority     qfixed.Q
	Dependencies []string
}

// Split partitions moves into a tactical subspace (captures and forcing
// actions) and a positional one (everything else), each wrapped with its
// fixed priority. Every move lands in exactly one partition, so when
// moves is empty Split returns no subspaces at all, and when every move
// falls on one side of the split only that one subspace is returned.
func Split(moves []action.Action) []Subspace {
	var tactical, positional []action.Action
	for _, m := range moves {
		if m.IsCapture() || m.IsForcing() {
			tactical = append(tactical, m)
		} else {
			positional = append(positional, m)
		}
	}

	var subspaces []Subspace
	if len(tactical) > 0 {
		subspaces = append(subspaces, Subspace{
			Name:     SubspaceTactical,
			Actions:  tactical,
			Priority: Priority[SubspaceTactical],
		})
	}
	if len(positional) > 0 {
		dep := []string(nil)
		if len(tactical) > 0 {
			dep = []string{SubspaceTactical}
		}
		subspaces = append(subspaces, Subspace{
			Name:         SubspacePositional,
			Actions:      positional,
			Priority:     Priority[SubspacePositional],
			Dependencies: dep,
		})
	}
	return subspaces
}
