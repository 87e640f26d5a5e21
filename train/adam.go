package train

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam is an adaptive-gradient optimizer with L2 weight decay folded into
// the gradient, matching the reference training regime.
type Adam struct {
	lr          float64
	beta1       float64
	beta2       float64
	eps         float64
	weightDecay float64

	step int
	m    [][]float64
	v    [][]float64
}

// NewAdam constructs an optimizer with the standard moment coefficients.
func NewAdam(lr, weightDecay float64) *Adam {
	return &Adam{
		lr:          lr,
		beta1:       0.9,
		beta2:       0.999,
		eps:         1e-8,
		weightDecay: weightDecay,
	}
}

// BeginStep advances the shared timestep. Call once per optimizer step,
// before updating the parameters of that step.
func (a *Adam) BeginStep() {
	a.step++
}

// Update applies one Adam update to the i-th parameter block in place.
func (a *Adam) Update(i int, param, grad *mat.Dense) {
	p := param.RawMatrix().Data
	g := grad.RawMatrix().Data

	for len(a.m) <= i {
		a.m = append(a.m, nil)
		a.v = append(a.v, nil)
	}
	if a.m[i] == nil {
		a.m[i] = make([]float64, len(p))
		a.v[i] = make([]float64, len(p))
	}
	m, v := a.m[i], a.v[i]

	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))

	for j := range p {
		gj := g[j] + a.weightDecay*p[j]
		m[j] = a.beta1*m[j] + (1-a.beta1)*gj
		v[j] = a.beta2*v[j] + (1-a.beta2)*gj*gj
		mHat := m[j] / c1
		vHat := v[j] / c2
		p[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
	}
}
