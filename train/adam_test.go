package train

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestAdamMinimizesQuadratic(t *testing.T) {
	param := mat.NewDense(1, 1, []float64{3})
	opt := NewAdam(0.1, 0)

	for i := 0; i < 500; i++ {
		grad := mat.NewDense(1, 1, []float64{2 * param.At(0, 0)})
		opt.BeginStep()
		opt.Update(0, param, grad)
	}
	assert.InDelta(t, 0, param.At(0, 0), 1e-3)
}

func TestAdamWeightDecayShrinksIdleParams(t *testing.T) {
	param := mat.NewDense(1, 1, []float64{1})
	opt := NewAdam(0.01, 0.1)

	zero := mat.NewDense(1, 1, []float64{0})
	for i := 0; i < 100; i++ {
		opt.BeginStep()
		opt.Update(0, param, zero)
	}
	assert.Less(t, math.Abs(param.At(0, 0)), 1.0)
}

func TestAdamSeparateMomentsPerBlock(t *testing.T) {
	a := mat.NewDense(1, 1, []float64{1})
	b := mat.NewDense(1, 1, []float64{1})
	opt := NewAdam(0.1, 0)

	opt.BeginStep()
	opt.Update(0, a, mat.NewDense(1, 1, []float64{1}))
	opt.Update(1, b, mat.NewDense(1, 1, []float64{-1}))

	assert.Less(t, a.At(0, 0), 1.0)
	assert.Greater(t, b.At(0, 0), 1.0)
}
