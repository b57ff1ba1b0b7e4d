package simplex_test

import (
	"errors"
	"math"
	"testing"

	"github.com/OilyCannelloni/simplex-mesh/grid"
	"github.com/OilyCannelloni/simplex-mesh/simplex"
)

// TestPositionByAnchors_ExactRecovery: exact distances to five anchors
// recover the true position to float precision.
func TestPositionByAnchors_ExactRecovery(t *testing.T) {
	truth := grid.Point2D{X: 3, Y: 2.9}
	anchors := []grid.Point2D{
		{X: -1, Y: 6}, {X: 8, Y: 6}, {X: 9, Y: -1}, {X: -4, Y: -1}, {X: -1, Y: 11},
	}
	distances := make([]float64, len(anchors))
	for i, a := range anchors {
		distances[i] = truth.Distance(a)
	}

	got, err := simplex.PositionByAnchors(anchors, distances)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Distance(truth) > 1e-9 {
		t.Errorf("position = %v; want %v", got, truth)
	}
}

// TestPositionByAnchors_NoisyOverdetermined: perturbed distances still
// land near the truth when the system is overdetermined.
func TestPositionByAnchors_NoisyOverdetermined(t *testing.T) {
	truth := grid.Point2D{X: 4, Y: 4}
	anchors := []grid.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 5, Y: -2},
	}
	noise := []float64{0.05, -0.08, 0.03, -0.04, 0.06}
	distances := make([]float64, len(anchors))
	for i, a := range anchors {
		distances[i] = truth.Distance(a) + noise[i]
	}

	got, err := simplex.PositionByAnchors(anchors, distances)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := got.Distance(truth); d > 0.25 {
		t.Errorf("position = %v; off truth by %v, want < 0.25", got, d)
	}
}

// TestPositionByAnchors_Errors covers the degenerate-input paths.
func TestPositionByAnchors_Errors(t *testing.T) {
	two := []grid.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}}
	if _, err := simplex.PositionByAnchors(two, []float64{1, 1}); !errors.Is(err, simplex.ErrAnchorCount) {
		t.Errorf("two anchors: want ErrAnchorCount, got %v", err)
	}

	three := []grid.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	if _, err := simplex.PositionByAnchors(three, []float64{1, 1}); !errors.Is(err, simplex.ErrAnchorCount) {
		t.Errorf("length mismatch: want ErrAnchorCount, got %v", err)
	}
}

// TestPositionByAnchors_ThreeAnchorMinimum: exactly three anchors is the
// smallest usable configuration.
func TestPositionByAnchors_ThreeAnchorMinimum(t *testing.T) {
	truth := grid.Point2D{X: 2, Y: 1}
	anchors := []grid.Point2D{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 0, Y: 5}}
	distances := make([]float64, len(anchors))
	for i, a := range anchors {
		distances[i] = truth.Distance(a)
	}

	got, err := simplex.PositionByAnchors(anchors, distances)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.X-truth.X) > 1e-9 || math.Abs(got.Y-truth.Y) > 1e-9 {
		t.Errorf("position = %v; want %v", got, truth)
	}
}
