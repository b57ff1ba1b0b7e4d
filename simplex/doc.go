// Package simplex holds the geometry kernels of the mesh:
//
//   - DiagonalRoots solves for the one missing edge of a complete graph on
//     four points, given the other five edge lengths, via a 5×5
//     Cayley–Menger determinant reduced to a real quadratic. It returns
//     0, 1, or 2 positive candidates; an empty result means the five edges
//     admit no planar embedding with a real sixth edge.
//
//   - PositionByAnchors computes a 2D least-squares fix from ≥3 anchor
//     positions and the distances to them.
//
// Both functions are stateless and allocation-light; DiagonalRoots is the
// inner loop of the distance-completion engine and is called once per
// (gate, target) attempt.
package simplex
