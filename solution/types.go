// Package solution defines the Solution value type, gate tagging, and
// tunable options for the per-edge accumulator.
package solution

// NoGate is the tag of a Solution that did not come from a solver gate
// (direct measurements). It is exempt from gate deduplication.
const NoGate = -1

// GateTag returns the canonical tag of the unordered node pair {a, b}:
// 2·min + 3·max. Two solver invocations through the same gate carry the
// same tag regardless of endpoint order.
func GateTag(a, b int) int {
	if a > b {
		a, b = b, a
	}

	return 2*a + 3*b
}

// Solution is one candidate distance for an edge, tagged with its
// provenance. Immutable once created; compared and sorted by Value only.
type Solution struct {
	// Value is the candidate distance.
	Value float64

	// Badness counts the propagated noise depth: the maximum Badness of
	// the five edges fed to the solver. Direct measurements carry 0.
	// Carried for future evidence weighting; no current resolution rule
	// consumes it.
	Badness int

	// Exact marks a direct measurement.
	Exact bool

	// Tag is the producing gate's tag, or NoGate.
	Tag int
}

// New returns a gateless candidate.
func New(value float64, badness int) Solution {
	return Solution{Value: value, Badness: badness, Tag: NoGate}
}

// NewGated returns a candidate produced through gate {a, b}.
func NewGated(value float64, badness int, a, b int) Solution {
	return Solution{Value: value, Badness: badness, Tag: GateTag(a, b)}
}

// Exact returns an exact solution sourced from a direct measurement.
func Exact(value float64) Solution {
	return Solution{Value: value, Exact: true, Tag: NoGate}
}

// SetOptions holds the accumulator's tunable parameters.
type SetOptions struct {
	// Cutoff discards candidates shorter than this value. Short roots are
	// spurious: a genuinely short edge would have been measured directly.
	// Callers derive it as maxReach × maxReachConstant.
	Cutoff float64

	// DerivFilterSize is the window F of the derivative sum. Forced odd.
	DerivFilterSize int

	// DerivAvgThreshold is the per-sample derivative threshold; the
	// windowed sum must not exceed F × DerivAvgThreshold to resolve.
	DerivAvgThreshold float64

	// MaxSetLength is the hard capacity; exceeding it forces resolution.
	MaxSetLength int
}

// Option configures a Set via functional arguments.
type Option func(*SetOptions)

// DefaultSetOptions returns the defaults of the latest field generation:
// cutoff 3.0 (reach 5.0 × 0.6), F=5, threshold 0.01, capacity 256.
func DefaultSetOptions() SetOptions {
	return SetOptions{
		Cutoff:            3.0,
		DerivFilterSize:   5,
		DerivAvgThreshold: 0.01,
		MaxSetLength:      256,
	}
}

// WithCutoff sets the minimum admissible candidate value.
func WithCutoff(c float64) Option {
	return func(o *SetOptions) { o.Cutoff = c }
}

// WithDerivFilterSize sets the derivative window F. Even values are
// incremented; values below 1 fall back to the default.
func WithDerivFilterSize(f int) Option {
	return func(o *SetOptions) {
		if f < 1 {
			return
		}
		if f%2 == 0 {
			f++
		}
		o.DerivFilterSize = f
	}
}

// WithDerivAvgThreshold sets the per-sample derivative threshold.
func WithDerivAvgThreshold(t float64) Option {
	return func(o *SetOptions) { o.DerivAvgThreshold = t }
}

// WithMaxSetLength sets the hard capacity.
func WithMaxSetLength(n int) Option {
	return func(o *SetOptions) {
		if n > 0 {
			o.MaxSetLength = n
		}
	}
}
