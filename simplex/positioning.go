package simplex

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/OilyCannelloni/simplex-mesh/grid"
)

// PositionByAnchors computes a 2D least-squares fix from anchor positions
// and the measured distances to them.
//
// The last anchor is used as the linearization reference: subtracting its
// circle equation from the others leaves the overdetermined linear system
//
//	2(aᵢ − a₀)ᵀ p = (d₀² − dᵢ²) − (|a₀|² − |aᵢ|²)
//
// solved in the least-squares sense via gonum's QR-backed VecDense.SolveVec.
//
// Returns ErrAnchorCount for fewer than three anchors or mismatched
// inputs, ErrSingular when the anchors are (near-)collinear.
func PositionByAnchors(anchors []grid.Point2D, distances []float64) (grid.Point2D, error) {
	if len(anchors) < 3 || len(anchors) != len(distances) {
		return grid.Point2D{}, fmt.Errorf("%w: %d anchors, %d distances",
			ErrAnchorCount, len(anchors), len(distances))
	}

	last := len(anchors) - 1
	a0, d0 := anchors[last], distances[last]
	rows := last

	a := mat.NewDense(rows, 2, nil)
	b := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		ai, di := anchors[i], distances[i]
		a.Set(i, 0, 2*(ai.X-a0.X))
		a.Set(i, 1, 2*(ai.Y-a0.Y))
		b.SetVec(i, (d0*d0-di*di)-(a0.X*a0.X-ai.X*ai.X)-(a0.Y*a0.Y-ai.Y*ai.Y))
	}

	var p mat.VecDense
	if err := p.SolveVec(a, b); err != nil {
		return grid.Point2D{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	return grid.Point2D{X: p.AtVec(0), Y: p.AtVec(1)}, nil
}
