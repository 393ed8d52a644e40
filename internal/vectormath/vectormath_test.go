package vectormath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/structgraph/structgraph/internal/vectormath"
)

func TestCosine_EqualVectorsScoreOne(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.InDelta(t, 1.0, vectormath.Cosine(v, v), 1e-9)
}

func TestCosine_OrthogonalVectorsScoreZero(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, vectormath.Cosine(a, b), 1e-9)
}

func TestCosine_OppositeVectorsScoreNegativeOne(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	assert.InDelta(t, -1.0, vectormath.Cosine(a, b), 1e-9)
}

func TestCosine_ZeroNormScoresZero(t *testing.T) {
	zero := []float32{0, 0, 0}
	other := []float32{1, 2, 3}
	assert.Equal(t, 0.0, vectormath.Cosine(zero, other))
	assert.Equal(t, 0.0, vectormath.Cosine(zero, zero))
}

func TestCosine_WithinBounds(t *testing.T) {
	a := []float32{0.5, -0.3, 0.8, 0.1}
	b := []float32{-0.2, 0.9, 0.4, -0.6}
	score := vectormath.Cosine(a, b)
	assert.GreaterOrEqual(t, score, -1.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestCosine_UnequalLengthPanics(t *testing.T) {
	assert.Panics(t, func() {
		vectormath.Cosine([]float32{1, 2}, []float32{1, 2, 3})
	})
}
