package search

import "tacticore/internal/qfixed"

// Config holds every tunable knob of the search engine. The zero value
// is never valid; use DefaultConfig and override fields, then call
// Validate (or Engine.SetConfig, which validates for you).
type Config struct {
	BaseDepth       int
	MaxDepth        int
	QuiescenceDepth int

	TimeLimitMs   int64
	FrameBudgetMs float64

	ExplorationConstant qfixed.Q

	UseNullMove       bool
	NullMoveReduction int

	UseLMR bool

	UseAspirationWindows bool
	AspirationWindow     qfixed.Q

	TTSizeMB int

	AdaptiveDepth bool
	LowEntropy    qfixed.Q
	HighEntropy   qfixed.Q
}

// DefaultConfig matches spec's named defaults exactly.
func DefaultConfig() Config {
	return Config{
		BaseDepth:            10,
		MaxDepth:             30,
		QuiescenceDepth:      8,
		TimeLimitMs:          0,
		FrameBudgetMs:        2.0,
		ExplorationConstant:  qfixed.FromFloatAtConstructionOnly(1.41421356), // sqrt(2)
		UseNullMove:          true,
		NullMoveReduction:    3,
		UseLMR:               true,
		UseAspirationWindows: true,
		AspirationWindow:     qfixed.FromFloatAtConstructionOnly(0.25),
		TTSizeMB:             64,
		AdaptiveDepth:        true,
		LowEntropy:           qfixed.FromFloatAtConstructionOnly(0.5),
		HighEntropy:          qfixed.FromFloatAtConstructionOnly(2.5),
	}
}

// Validate rejects a configuration with out-of-range knobs, returning
// ErrConfigRejected wrapped with the offending field's explanation.
func (c Config) Validate() error {
	switch {
	case c.BaseDepth <= 0:
		return wrapConfigError("base_depth must be positive")
	case c.MaxDepth < c.BaseDepth:
		return wrapConfigError("max_depth must be >= base_depth")
	case c.MaxDepth > MaxPly:
		return wrapConfigError("max_depth exceeds the engine's ply limit")
	case c.QuiescenceDepth < 0:
		return wrapConfigError("quiescence_depth must be >= 0")
	case c.TimeLimitMs < 0:
		return wrapConfigError("time_limit_ms must be >= 0")
	case c.FrameBudgetMs <= 0:
		return wrapConfigError("frame_budget_ms must be positive")
	case c.NullMoveReduction < 1:
		return wrapConfigError("null_move_reduction must be >= 1")
	case c.TTSizeMB <= 0:
		return wrapConfigError("tt_size_mb must be positive")
	case c.LowEntropy > c.HighEntropy:
		return wrapConfigError("low_entropy must be <= high_entropy")
	}
	return nil
}

func wrapConfigError(reason string) error {
	return &configError{reason: reason}
}

type configError struct{ reason string }

func (e *configError) Error() string { return "tacticore/search: config rejected: " + e.reason }
func (e *configError) Unwrap() error { return ErrConfigRejected }
