// Package ranging defines tunable options for the range filter.
package ranging

import (
	"errors"
	"fmt"
)

// ErrOptionViolation is returned by New when an invalid Option is supplied.
var ErrOptionViolation = errors.New("ranging: invalid option supplied")

// Estimator selects how the median-filtered sequence is collapsed into
// the final estimate.
type Estimator int

const (
	// EstimatorMedianMean averages the whole filtered sequence (default).
	EstimatorMedianMean Estimator = iota
	// EstimatorIQRMean averages the 0.15–0.45 interquantile slice of the
	// sorted filtered sequence.
	EstimatorIQRMean
)

// FilterOptions holds the filter's tunable parameters.
type FilterOptions struct {
	// MaxSamples bounds the raw FIFO; the oldest sample is dropped on
	// overflow.
	MaxSamples int

	// MinSamples is the number of raw samples required before an
	// estimate is produced.
	MinSamples int

	// MedianWindow is the nominal median window size. The effective
	// half-window is MedianWindow/2, incremented when even so the
	// window stays symmetric.
	MedianWindow int

	// Estimator picks the final collapse strategy.
	Estimator Estimator

	// internal error recorded during option parsing
	err error
}

// Option configures a Filter via functional arguments.
type Option func(*FilterOptions)

// DefaultFilterOptions returns the defaults observed on hardware:
// FIFO of 30, estimate after 10 samples, median window 5, mean collapse.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		MaxSamples:   30,
		MinSamples:   10,
		MedianWindow: 5,
		Estimator:    EstimatorMedianMean,
	}
}

// WithMaxSamples sets the FIFO bound. Must be positive.
func WithMaxSamples(n int) Option {
	return func(o *FilterOptions) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxSamples must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxSamples = n
	}
}

// WithMinSamples sets how many samples are required before Value yields.
func WithMinSamples(n int) Option {
	return func(o *FilterOptions) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MinSamples must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MinSamples = n
	}
}

// WithMedianWindow sets the nominal median window size.
func WithMedianWindow(n int) Option {
	return func(o *FilterOptions) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MedianWindow must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MedianWindow = n
	}
}

// WithEstimator selects the collapse strategy.
func WithEstimator(e Estimator) Option {
	return func(o *FilterOptions) {
		if e != EstimatorMedianMean && e != EstimatorIQRMean {
			o.err = fmt.Errorf("%w: unknown estimator (%d)", ErrOptionViolation, e)
			return
		}
		o.Estimator = e
	}
}
