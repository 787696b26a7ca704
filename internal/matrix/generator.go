package matrix

import (
	"math/rand"
	"time"

	apperrors "matbench/internal/errors"
)

// MaxValue is the exclusive upper bound of generated cells.
const MaxValue = 100.0

// Generator draws benchmark workloads from a single random source.
// A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator owning a *rand.Rand built on src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator creates a reproducible Generator.
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.NewSource(seed))
}

// NewRandomGenerator creates a Generator seeded from the wall clock.
func NewRandomGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// Generate returns two independent n×n matrices with every cell drawn
// uniformly from [0, MaxValue). n ≤ 0 returns an InvalidSizeError and no matrices.
func (g *Generator) Generate(n int) (Matrix, Matrix, error) {
	if n <= 0 {
		return nil, nil, apperrors.NewInvalidSizeError(n, "must be positive")
	}
	return g.fill(n), g.fill(n), nil
}

func (g *Generator) fill(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		row := make([]float64, n)
		for j := range row {
			row[j] = g.rng.Float64() * MaxValue
		}
		m[i] = row
	}
	return m
}
