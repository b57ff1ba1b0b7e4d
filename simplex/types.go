// Package simplex defines input types and sentinel errors for the
// geometry kernels.
package simplex

import "errors"

// Sentinel errors for positioning.
var (
	// ErrAnchorCount indicates fewer than three anchors, or a length
	// mismatch between anchors and distances.
	ErrAnchorCount = errors.New("simplex: need at least 3 anchors with matching distances")

	// ErrSingular indicates the anchor configuration is degenerate
	// (e.g. collinear) and the least-squares system has no solution.
	ErrSingular = errors.New("simplex: degenerate anchor configuration")
)

// Edges carries the five known edge lengths of a 4-vertex configuration
// with vertices 0..3. The missing edge is 0–3.
//
// Field names follow the vertex pairs: D01 is the length of edge 0–1.
type Edges struct {
	D01, D02, D12, D13, D23 float64
}
