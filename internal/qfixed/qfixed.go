// Package qfixed implements the deterministic fixed-point scalar used for
// every value in tacticore that can influence a search decision. It never
// consults platform floating point.
package qfixed

// Q is a 32-bit signed fixed-point number with 15 fractional bits
// (scale 1<<Frac). It is the only numeric type the search engine uses for
// values that affect a decision: evaluations, priors, static scores,
// confidence, and the UCB exploration constant all flow through Q.
type Q int32

const (
	// Frac is the number of fractional bits.
	Frac = 15
	// Scale is 1<<Frac, i.e. the value representing 1.0.
	Scale = 1 << Frac
)

const (
	ZERO Q = 0
	ONE  Q = Scale
	MIN  Q = -1 << 31
	MAX  Q = 1<<31 - 1
)

// FromInt converts an integer to Q.
func FromInt(n int) Q {
	return Q(int64(n) * Scale)
}

// FromFloatAtConstructionOnly converts a float64 to Q. It exists only for
// building constant tables (feature weights, test fixtures) at
// construction time; it must never be called from inside a search.
func FromFloatAtConstructionOnly(f float64) Q {
	v := f * float64(Scale)
	if v >= float64(MAX) {
		return MAX
	}
	if v <= float64(MIN) {
		return MIN
	}
	return Q(v)
}

// ToFloatForLoggingOnly converts Q to a float64. It exists only for
// diagnostics and logging; no decision may depend on its result.
func (q Q) ToFloatForLoggingOnly() float64 {
	return float64(q) / float64(Scale)
}

// Raw returns the underlying fixed-point representation.
func (q Q) Raw() int32 {
	return int32(q)
}

// Add returns q+o, saturating at MIN/MAX on overflow.
func (q Q) Add(o Q) Q {
	sum := int64(q) + int64(o)
	return saturate(sum)
}

// Sub returns q-o, saturating at MIN/MAX on overflow.
func (q Q) Sub(o Q) Q {
	diff := int64(q) - int64(o)
	return saturate(diff)
}

// Neg returns -q.
func (q Q) Neg() Q {
	if q == MIN {
		return MAX
	}
	return -q
}

// Mul returns q*o using a 64-bit intermediate product, shifted right by
// Frac bits.
func (q Q) Mul(o Q) Q {
	prod := int64(q) * int64(o)
	return saturate(prod >> Frac)
}

// Div returns q/o. The numerator is shifted left by Frac bits before the
// integer division. Division by zero returns MAX with the sign of q (or
// MAX if q is also zero).
func (q Q) Div(o Q) Q {
	if o == 0 {
		if q < 0 {
			return MIN + 1 // -MAX, preserves sign of numerator
		}
		return MAX
	}
	num := int64(q) << Frac
	return saturate(num / int64(o))
}

// Less reports whether q orders strictly before o.
func (q Q) Less(o Q) bool {
	return q < o
}

// Clamp restricts q to [lo, hi].
func Clamp(q, lo, hi Q) Q {
	if q < lo {
		return lo
	}
	if q > hi {
		return hi
	}
	return q
}

// Abs returns the absolute value of q.
func (q Q) Abs() Q {
	if q < 0 {
		return q.Neg()
	}
	return q
}

// Max returns the larger of a and b.
func Max(a, b Q) Q {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Q) Q {
	if a < b {
		return a
	}
	return b
}

func saturate(v int64) Q {
	if v > int64(MAX) {
		return MAX
	}
	if v < int64(MIN) {
		return MIN
	}
	return Q(v)
}
