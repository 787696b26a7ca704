package matrix

import (
	"fmt"

	apperrors "matbench/internal/errors"
)

// Multiplier computes the product of two square matrices.
type Multiplier interface {
	Multiply(a, b Matrix) (Matrix, error)
}

// Kernel is a Multiplier that can also compute the product of operands
// already accepted by CheckOperands, so callers can time the loop alone.
type Kernel interface {
	Multiplier
	Product(a, b Matrix) Matrix
}

// Naive is the textbook O(n³) multiplier. It is the fixed workload the
// benchmark measures and must not be blocked, vectorized or parallelized.
type Naive struct{}

// Multiply implements Multiplier.
func (Naive) Multiply(a, b Matrix) (Matrix, error) {
	return Multiply(a, b)
}

// Product implements Kernel. a and b must have passed CheckOperands.
func (Naive) Product(a, b Matrix) Matrix {
	return product(a, b)
}

// CheckOperands reports whether a and b are square with the same dimension
// and hold only finite values.
func CheckOperands(a, b Matrix) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if n := a.Size(); b.Size() != n {
		return apperrors.NewInvalidSizeError(b.Size(), fmt.Sprintf("does not match left operand size %d", n))
	}
	if err := a.CheckFinite(); err != nil {
		return err
	}
	return b.CheckFinite()
}

// Multiply returns C = A·B using i→j→k accumulation in float64, with each
// C[i][j] starting at zero. A and B must be square with the same dimension
// and hold only finite values.
func Multiply(a, b Matrix) (Matrix, error) {
	if err := CheckOperands(a, b); err != nil {
		return nil, err
	}
	return product(a, b), nil
}

func product(a, b Matrix) Matrix {
	n := a.Size()
	c := make(Matrix, n)
	for i := 0; i < n; i++ {
		c[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += a[i][k] * b[k][j]
			}
			c[i][j] = sum
		}
	}
	return c
}
