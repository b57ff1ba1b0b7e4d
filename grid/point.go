package grid

import (
	"fmt"
	"math"
	"math/rand"
)

// Point2D is a point in the plane. The zero value is the origin.
type Point2D struct {
	X, Y float64
}

// DistanceSquared returns the squared Euclidean distance to other.
func (p Point2D) DistanceSquared(other Point2D) float64 {
	dx, dy := p.X-other.X, p.Y-other.Y
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance to other.
func (p Point2D) Distance(other Point2D) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

// String renders the point with one decimal, matching log output.
func (p Point2D) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// RandomPoint2D draws a point uniformly from [lo,hi)×[lo,hi).
func RandomPoint2D(rng *rand.Rand, lo, hi float64) Point2D {
	span := hi - lo
	return Point2D{
		X: rng.Float64()*span + lo,
		Y: rng.Float64()*span + lo,
	}
}

// Point3D is a point in space. It exists for the dimensional
// generalization of the solver; the current grid places in 2D only.
type Point3D struct {
	X, Y, Z float64
}

// DistanceSquared returns the squared Euclidean distance to other.
func (p Point3D) DistanceSquared(other Point3D) float64 {
	dx, dy, dz := p.X-other.X, p.Y-other.Y, p.Z-other.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the Euclidean distance to other.
func (p Point3D) Distance(other Point3D) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}
