package ranging

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// iqrLow and iqrHigh bound the interquantile slice used by EstimatorIQRMean.
const (
	iqrLow  = 0.15
	iqrHigh = 0.45
)

// Filter accumulates raw range samples and produces a filtered estimate.
// Not safe for concurrent use; each (origin, neighbor) pair owns one.
type Filter struct {
	opts    FilterOptions
	samples []float64
	scratch []float64
	cached  float64
	valid   bool
}

// New constructs a Filter. Returns ErrOptionViolation on invalid options.
func New(opts ...Option) (*Filter, error) {
	o := DefaultFilterOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	return &Filter{
		opts:    o,
		samples: make([]float64, 0, o.MaxSamples),
	}, nil
}

// Add appends a raw sample, dropping the oldest when the FIFO is full,
// and invalidates the cached estimate.
func (f *Filter) Add(sample float64) {
	if len(f.samples) == f.opts.MaxSamples {
		f.samples = append(f.samples[:0], f.samples[1:]...)
	}
	f.samples = append(f.samples, sample)
	f.valid = false
}

// Len returns the number of buffered samples.
func (f *Filter) Len() int { return len(f.samples) }

// Value returns the current estimate, computing it if the cache is stale.
// The second return is false until enough samples have accumulated.
// Idempotent between Adds.
func (f *Filter) Value() (float64, bool) {
	if f.valid {
		return f.cached, true
	}
	if len(f.samples) < f.opts.MinSamples {
		return 0, false
	}

	// Effective half-window; incremented when even to stay symmetric.
	half := f.opts.MedianWindow / 2
	if half%2 == 0 {
		half++
	}
	if len(f.samples) < 2*half+1 {
		return 0, false
	}

	filtered := make([]float64, 0, len(f.samples)-2*half)
	for i := half; i < len(f.samples)-half; i++ {
		filtered = append(filtered, f.windowMedian(i-half, i+half))
	}

	switch f.opts.Estimator {
	case EstimatorIQRMean:
		sort.Float64s(filtered)
		lo := int(float64(len(filtered)) * iqrLow)
		hi := int(float64(len(filtered)) * iqrHigh)
		if hi <= lo {
			hi = lo + 1
		}
		f.cached = stat.Mean(filtered[lo:hi], nil)
	default:
		f.cached = stat.Mean(filtered, nil)
	}
	f.valid = true

	return f.cached, true
}

// windowMedian returns the median of samples[lo:hi).
func (f *Filter) windowMedian(lo, hi int) float64 {
	f.scratch = append(f.scratch[:0], f.samples[lo:hi]...)
	sort.Float64s(f.scratch)
	n := len(f.scratch)
	if n%2 == 1 {
		return f.scratch[n/2]
	}

	return (f.scratch[n/2-1] + f.scratch[n/2]) / 2
}
