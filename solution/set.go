package solution

import "sort"

// Set accumulates candidate Solutions for a single directed edge and
// elects a resolved value once the evidence is sufficient.
//
// A Set resolves at most once; after resolution further candidates are
// ignored. The single exception is an exact seed, which overrides any
// derived value and then freezes the set for good.
//
// Not safe for concurrent use; the owning node serializes access.
type Set struct {
	opts      SetOptions
	solutions []Solution
	resolved  Solution
	ready     bool
	exact     bool
}

// NewSet returns an empty, unresolved accumulator.
func NewSet(opts ...Option) *Set {
	o := DefaultSetOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Set{opts: o}
}

// NewExactSet returns a set resolved immediately with an exact value.
func NewExactSet(value float64, opts ...Option) *Set {
	s := NewSet(opts...)
	s.resolved = Exact(value)
	s.ready = true
	s.exact = true

	return s
}

// Add inserts one candidate. Returns true iff this insertion established
// the resolved value.
func (s *Set) Add(sol Solution) bool {
	s.insert(sol)

	return s.elect()
}

// Extend bulk-inserts candidates. Returns true iff the batch established
// the resolved value.
func (s *Set) Extend(sols []Solution) bool {
	for _, sol := range sols {
		s.insert(sol)
	}

	return s.elect()
}

// Get returns the resolved Solution, or false while unresolved.
func (s *Set) Get() (Solution, bool) {
	return s.resolved, s.ready
}

// Exact reports whether the resolved value came from a direct measurement.
func (s *Set) Exact() bool { return s.exact }

// Len returns the number of stored candidates.
func (s *Set) Len() int { return len(s.solutions) }

// insert applies the admission rules: exact wins permanently, short
// candidates are cut off, duplicate gate tags are dropped, the rest go
// into the sorted sequence.
func (s *Set) insert(sol Solution) {
	if s.exact {
		return
	}
	if sol.Exact {
		s.resolved = sol
		s.ready = true
		s.exact = true

		return
	}
	if s.ready {
		// Resolved sets are frozen; late evidence changes nothing.
		return
	}
	if sol.Value < s.opts.Cutoff {
		return
	}
	if sol.Tag != NoGate {
		for _, existing := range s.solutions {
			if existing.Tag == sol.Tag {
				return
			}
		}
	}

	at := sort.Search(len(s.solutions), func(i int) bool {
		return s.solutions[i].Value > sol.Value
	})
	s.solutions = append(s.solutions, Solution{})
	copy(s.solutions[at+1:], s.solutions[at:])
	s.solutions[at] = sol
}

// elect runs cluster detection over the sorted candidates. Returns true
// iff it transitions the set to resolved.
//
// The smoothed first derivative of the sorted values dips where candidates
// cluster: S[j] sums F consecutive differences centered on j, and the
// minimum of S marks the densest run. Resolution requires the minimum to
// be at most F × DerivAvgThreshold, unless the set has outgrown its hard
// capacity, in which case the best cluster is taken as-is.
func (s *Set) elect() bool {
	if s.ready {
		return false
	}
	f := s.opts.DerivFilterSize
	if len(s.solutions) < 2*f {
		return false
	}

	deriv := make([]float64, len(s.solutions)-1)
	for i := range deriv {
		deriv[i] = s.solutions[i+1].Value - s.solutions[i].Value
	}

	delta := f / 2
	minSum, minAt := 0.0, -1
	for center := delta; center < len(deriv)-delta; center++ {
		sum := 0.0
		for k := center - delta; k <= center+delta; k++ {
			sum += deriv[k]
		}
		if minAt < 0 || sum < minSum {
			minSum, minAt = sum, center
		}
	}
	if minAt < 0 {
		return false
	}

	mustChoose := len(s.solutions) > s.opts.MaxSetLength
	if !mustChoose && minSum > float64(f)*s.opts.DerivAvgThreshold {
		return false
	}

	s.resolved = s.solutions[minAt+delta]
	s.ready = true

	return true
}
