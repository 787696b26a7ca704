package matrix

import (
	"errors"
	"testing"

	apperrors "matbench/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ShapeAndRange(t *testing.T) {
	g := NewSeededGenerator(42)

	for _, n := range []int{1, 2, 5, 17, 64} {
		a, b, err := g.Generate(n)
		require.NoError(t, err)

		for _, m := range []Matrix{a, b} {
			require.Len(t, m, n)
			for _, row := range m {
				require.Len(t, row, n)
				for _, v := range row {
					assert.GreaterOrEqual(t, v, 0.0)
					assert.Less(t, v, MaxValue)
				}
			}
		}
	}
}

func TestGenerate_IndependentMatrices(t *testing.T) {
	g := NewSeededGenerator(7)
	a, b, err := g.Generate(8)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerate_SeedReproducible(t *testing.T) {
	a1, b1, err := NewSeededGenerator(99).Generate(4)
	require.NoError(t, err)
	a2, b2, err := NewSeededGenerator(99).Generate(4)
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestGenerate_FreshDrawsPerCall(t *testing.T) {
	g := NewSeededGenerator(1)
	a1, _, err := g.Generate(4)
	require.NoError(t, err)
	a2, _, err := g.Generate(4)
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2)
}

func TestGenerate_InvalidSize(t *testing.T) {
	g := NewRandomGenerator()
	for _, n := range []int{0, -1, -128} {
		a, b, err := g.Generate(n)
		assert.Nil(t, a)
		assert.Nil(t, b)

		var sizeErr *apperrors.InvalidSizeError
		require.True(t, errors.As(err, &sizeErr))
		assert.Equal(t, n, sizeErr.Size)
	}
}
