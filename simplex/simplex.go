// SPDX-License-Identifier: MIT
package simplex

import (
	"math"
	"math/cmplx"
	"sort"
)

// zeroPivot is the modulus below which an LU pivot is considered zero,
// making the determinant zero.
const zeroPivot = 1e-12

// DiagonalRoots returns the candidate lengths of the missing edge 0–3.
//
// The 5×5 Cayley–Menger determinant of the four points is a quadratic in
// x = d03². Placing the imaginary unit in one of the two x slots makes the
// full determinant and the (0,3) minor linear in i, so the quadratic
// coefficients can be read off their real and imaginary parts:
//
//	a = −Im(minor),  b = Im(det) − Re(minor),  c = Re(det)
//
// Each strictly positive real root r of a·x² + b·x + c yields the candidate
// √r. Candidates are returned in ascending order. An empty slice means no
// real solution exists; it is a valid outcome, not an error.
//
// Complexity: two fixed-size LU decompositions, O(1).
func DiagonalRoots(e Edges) []float64 {
	q01 := e.D01 * e.D01
	q02 := e.D02 * e.D02
	q12 := e.D12 * e.D12
	q13 := e.D13 * e.D13
	q23 := e.D23 * e.D23

	// One x slot holds i, the other 0: det(M) stays linear in i.
	m := [][]complex128{
		{0, complex(q01, 0), complex(q02, 0), 0, 1},
		{complex(q01, 0), 0, complex(q12, 0), complex(q13, 0), 1},
		{complex(q02, 0), complex(q12, 0), 0, complex(q23, 0), 1},
		{complex(0, 1), complex(q13, 0), complex(q23, 0), 0, 1},
		{1, 1, 1, 1, 0},
	}
	det := determinant(m)

	// Minor: drop row 0 and column 3. The i entry survives in it.
	minor := [][]complex128{
		{complex(q01, 0), 0, complex(q12, 0), 1},
		{complex(q02, 0), complex(q12, 0), 0, 1},
		{complex(0, 1), complex(q13, 0), complex(q23, 0), 1},
		{1, 1, 1, 0},
	}
	xdet := determinant(minor)

	a := -imag(xdet)
	b := imag(det) - real(xdet)
	c := real(det)

	return sqrtPositive(quadraticRoots(a, b, c))
}

// quadraticRoots solves a·x² + b·x + c = 0 over the reals.
// Returns nil when the discriminant is negative, a single root when it
// vanishes, and the linear root when a degenerates to zero.
func quadraticRoots(a, b, c float64) []float64 {
	if math.Abs(a) < zeroPivot {
		if math.Abs(b) < zeroPivot {
			return nil
		}

		return []float64{-c / b}
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	rd := math.Sqrt(disc)
	if rd == 0 {
		return []float64{-b / (2 * a)}
	}

	return []float64{(-b - rd) / (2 * a), (-b + rd) / (2 * a)}
}

// sqrtPositive maps each strictly positive root r to √r, dropping the rest.
// Results are sorted ascending for deterministic downstream insertion.
func sqrtPositive(roots []float64) []float64 {
	out := make([]float64, 0, len(roots))
	for _, r := range roots {
		if r > 0 {
			out = append(out, math.Sqrt(r))
		}
	}
	sort.Float64s(out)

	return out
}

// determinant computes det(m) of a small square complex matrix in place
// on a copy, by LU decomposition with partial pivoting on modulus.
func determinant(m [][]complex128) complex128 {
	n := len(m)
	lu := make([][]complex128, n)
	for i := range m {
		lu[i] = make([]complex128, n)
		copy(lu[i], m[i])
	}

	det := complex(1, 0)
	for col := 0; col < n; col++ {
		// Pivot on the largest modulus in this column.
		pivot := col
		best := cmplx.Abs(lu[col][col])
		for row := col + 1; row < n; row++ {
			if mod := cmplx.Abs(lu[row][col]); mod > best {
				best, pivot = mod, row
			}
		}
		if best < zeroPivot {
			return 0
		}
		if pivot != col {
			lu[col], lu[pivot] = lu[pivot], lu[col]
			det = -det
		}
		det *= lu[col][col]

		for row := col + 1; row < n; row++ {
			factor := lu[row][col] / lu[col][col]
			for k := col + 1; k < n; k++ {
				lu[row][k] -= factor * lu[col][k]
			}
		}
	}

	return det
}
