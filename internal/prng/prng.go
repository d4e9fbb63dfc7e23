// Package prng implements the deterministic xorshift64* generator used for
// tie-breaking and shuffling. Its state is never consulted by the
// evaluator or the search decision logic; its only user is the test and
// demo fixture's Zobrist table, per spec's ban on hidden-information
// sampling feeding a decision.
package prng

// Source is a seedable xorshift64* generator. Equal states produce equal
// streams, which is the whole of its determinism contract.
type Source struct {
	state uint64
}

// New creates a Source from seed. A zero seed is replaced with a fixed
// non-zero constant, since xorshift64* never recovers from a zero state.
func New(seed uint64) *Source {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &Source{state: seed}
}

// Next returns the next value in the stream and advances the state.
func (s *Source) Next() uint64 {
	x := s.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	s.state = x
	return x * 0x2545F4914F6CDD1D
}

// State returns the current internal state, for replay/logging.
func (s *Source) State() uint64 {
	return s.state
}

// SetState overwrites the internal state, for replay. A zero value is
// rejected the same way New rejects a zero seed.
func (s *Source) SetState(state uint64) {
	if state == 0 {
		state = 0x9E3779B97F4A7C15
	}
	s.state = state
}

// Intn returns a deterministic value in [0, n) for n > 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Next() % uint64(n))
}
