// Package matrix provides the square dense matrices, the random workload
// generator and the naive multiply kernel used by the benchmark.
package matrix

import (
	"fmt"
	"math"

	apperrors "matbench/internal/errors"
)

// Matrix is a square, row-major matrix indexed [row][col].
type Matrix [][]float64

// New returns an n×n matrix of zeros.
func New(n int) (Matrix, error) {
	if n <= 0 {
		return nil, apperrors.NewInvalidSizeError(n, "must be positive")
	}
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) (Matrix, error) {
	m, err := New(n)
	if err != nil {
		return nil, err
	}
	for i := range m {
		m[i][i] = 1
	}
	return m, nil
}

// Size returns the dimension n, taken from the number of rows.
func (m Matrix) Size() int {
	return len(m)
}

// Validate checks that m is non-empty and square.
func (m Matrix) Validate() error {
	n := len(m)
	if n == 0 {
		return apperrors.NewInvalidSizeError(0, "matrix is empty")
	}
	for i, row := range m {
		if len(row) != n {
			return apperrors.NewInvalidSizeError(n, fmt.Sprintf("row %d has %d columns", i, len(row)))
		}
	}
	return nil
}

// CheckFinite returns a ComputationError for the first NaN or infinite cell.
func (m Matrix) CheckFinite() error {
	for i, row := range m {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return apperrors.NewComputationError(i, j, fmt.Sprintf("non-finite value %v", v))
			}
		}
	}
	return nil
}

// AlmostEqual reports whether a and b have the same shape and every pair
// of cells differs by at most tol.
func AlmostEqual(a, b Matrix, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if math.Abs(a[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}
