// Package action defines Action, the compact totally-ordered value every
// game-state adapter generates and the search engine orders, caches, and
// compares. Action is domain-opaque: the engine never interprets the
// from/to/payload fields beyond the flag bits spec.md fixes meaning for.
package action

import "tacticore/internal/qfixed"

// Flag bits within TypeFlags. Domain adapters are free to set additional
// bits above bit 1; the engine only ever reads bits 0 and 1.
const (
	FlagCapture uint32 = 1 << 0
	FlagForcing uint32 = 1 << 1
)

// None is the zero value Action, used as a sentinel for "no action" (an
// empty hash move, an absent primary at a terminal root, and so on). It
// compares less than any action with a non-zero From/To/TypeFlags tuple
// only by coincidence of field order; callers that need to distinguish
// "no action" from a legitimate (0,0,0,0) action should track that
// separately (the engine itself never constructs (0,0,0,0) as a real
// move from a non-degenerate state).
var None Action

// Action is the record the engine treats as a totally-ordered value.
// ActionID is the index of this action within the legal-action list
// that generated it; within one such list, IDs are 0..N-1 in generation
// order (invariant enforced by callers of GameState.LegalActions).
type Action struct {
	ActionID    uint32
	From        uint32
	To          uint32
	TypeFlags   uint32
	Payload     int32
	Prior       qfixed.Q
	StaticScore qfixed.Q
}

// IsCapture reports whether the capture flag is set.
func (a Action) IsCapture() bool {
	return a.TypeFlags&FlagCapture != 0
}

// IsForcing reports whether the check/forcing flag is set.
func (a Action) IsForcing() bool {
	return a.TypeFlags&FlagForcing != 0
}

// Equal compares the four fields that define action identity: From, To,
// TypeFlags, and Payload. ActionID, Prior, and StaticScore are metadata,
// not identity.
func (a Action) Equal(b Action) bool {
	return a.From == b.From && a.To == b.To && a.TypeFlags == b.TypeFlags && a.Payload == b.Payload
}

// Less reports whether a orders strictly before b in the action total
// order: lexicographic over (From, To, TypeFlags, Payload).
func Less(a, b Action) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	if a.To != b.To {
		return a.To < b.To
	}
	if a.TypeFlags != b.TypeFlags {
		return a.TypeFlags < b.TypeFlags
	}
	return a.Payload < b.Payload
}

// Compare returns -1, 0, or 1 as a orders before, equal to, or after b.
func Compare(a, b Action) int {
	switch {
	case a.Equal(b):
		return 0
	case Less(a, b):
		return -1
	default:
		return 1
	}
}
