// Package model implements the domain-adversarial classifier: a one-hidden-
// layer feature extractor feeding a label head and a domain head, where the
// domain head's gradient is reversed and scaled before it reaches the
// extractor. Forward passes are plain matrix arithmetic; gradients are
// computed explicitly in Backward.
package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// NumClasses is the output width of both heads.
const NumClasses = 2

// Net holds the three linear maps and the training-mode state.
type Net struct {
	w1, b1           *mat.Dense // extractor: in×h, 1×h
	wLabel, bLabel   *mat.Dense // label head: h×2, 1×2
	wDomain, bDomain *mat.Dense // domain head: h×2, 1×2

	inputDim  int
	hiddenDim int
	dropout   float64

	training bool
	rng      *rand.Rand
}

// NewNet constructs a network with uniform(-1/sqrt(fanIn), 1/sqrt(fanIn))
// initialization per layer. The rng is retained for dropout masks.
func NewNet(inputDim, hiddenDim int, dropout float64, rng *rand.Rand) *Net {
	n := &Net{
		inputDim:  inputDim,
		hiddenDim: hiddenDim,
		dropout:   dropout,
		training:  true,
		rng:       rng,
	}
	n.w1, n.b1 = initLayer(inputDim, hiddenDim, rng)
	n.wLabel, n.bLabel = initLayer(hiddenDim, NumClasses, rng)
	n.wDomain, n.bDomain = initLayer(hiddenDim, NumClasses, rng)
	return n
}

func initLayer(in, out int, rng *rand.Rand) (w, b *mat.Dense) {
	bound := 1 / math.Sqrt(float64(in))
	wData := make([]float64, in*out)
	for i := range wData {
		wData[i] = (2*rng.Float64() - 1) * bound
	}
	bData := make([]float64, out)
	for i := range bData {
		bData[i] = (2*rng.Float64() - 1) * bound
	}
	return mat.NewDense(in, out, wData), mat.NewDense(1, out, bData)
}

// InputDim returns the expected feature width.
func (n *Net) InputDim() int {
	return n.inputDim
}

// SetTraining toggles training mode. Dropout masks are only drawn while in
// training mode.
func (n *Net) SetTraining(training bool) {
	n.training = training
}

// Training reports whether the net is in training mode.
func (n *Net) Training() bool {
	return n.training
}

// Cache holds the activations of one forward pass needed by Backward.
type Cache struct {
	x       *mat.Dense
	preact  *mat.Dense // extractor output before the nonlinearity
	hidden  *mat.Dense // after relu and dropout
	dropVec []float64  // inverted-dropout mask, nil outside training
	alpha   float64
}

// Forward runs a batch through the network. alpha is the gradient-reversal
// coefficient recorded for the backward pass; the forward computation is
// identical for any alpha.
func (n *Net) Forward(x *mat.Dense, alpha float64) (labelLogits, domainLogits *mat.Dense, cache *Cache) {
	rows, _ := x.Dims()

	preact := new(mat.Dense)
	preact.Mul(x, n.w1)
	addRowVector(preact, n.b1)

	hidden := new(mat.Dense)
	hidden.Apply(func(_, _ int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, preact)

	cache = &Cache{x: x, preact: preact, alpha: alpha}
	if n.training && n.dropout > 0 {
		keep := 1 - n.dropout
		vec := make([]float64, rows*n.hiddenDim)
		for i := range vec {
			if n.rng.Float64() < keep {
				vec[i] = 1 / keep
			}
		}
		mask := mat.NewDense(rows, n.hiddenDim, vec)
		hidden.MulElem(hidden, mask)
		cache.dropVec = vec
	}
	cache.hidden = hidden

	labelLogits = new(mat.Dense)
	labelLogits.Mul(hidden, n.wLabel)
	addRowVector(labelLogits, n.bLabel)

	domainLogits = new(mat.Dense)
	domainLogits.Mul(hidden, n.wDomain)
	addRowVector(domainLogits, n.bDomain)
	return labelLogits, domainLogits, cache
}

// Gradients mirrors the parameter layout of Net.
type Gradients struct {
	w1, b1           *mat.Dense
	wLabel, bLabel   *mat.Dense
	wDomain, bDomain *mat.Dense
}

// Backward computes parameter gradients given the gradients of the loss
// with respect to each head's logits. The domain branch contributes to the
// extractor through the reversal layer: its gradient is multiplied by
// -alpha on the way down, while the domain head itself receives the
// unreversed gradient.
func (n *Net) Backward(cache *Cache, dLabel, dDomain *mat.Dense) *Gradients {
	g := &Gradients{}

	g.wLabel = new(mat.Dense)
	g.wLabel.Mul(cache.hidden.T(), dLabel)
	g.bLabel = sumRows(dLabel)

	g.wDomain = new(mat.Dense)
	g.wDomain.Mul(cache.hidden.T(), dDomain)
	g.bDomain = sumRows(dDomain)

	// dHidden = dLabel·WLabel' - alpha · dDomain·WDomain'
	dHidden := new(mat.Dense)
	dHidden.Mul(dLabel, n.wLabel.T())
	reversed := new(mat.Dense)
	reversed.Mul(dDomain, n.wDomain.T())
	reversed.Scale(-cache.alpha, reversed)
	dHidden.Add(dHidden, reversed)

	if cache.dropVec != nil {
		rows, cols := dHidden.Dims()
		dHidden.MulElem(dHidden, mat.NewDense(rows, cols, cache.dropVec))
	}

	// relu gate
	dPre := new(mat.Dense)
	dPre.Apply(func(i, j int, v float64) float64 {
		if cache.preact.At(i, j) <= 0 {
			return 0
		}
		return v
	}, dHidden)

	g.w1 = new(mat.Dense)
	g.w1.Mul(cache.x.T(), dPre)
	g.b1 = sumRows(dPre)
	return g
}

// params returns the parameter matrices in a fixed order shared with
// Gradients.list and Snapshot.
func (n *Net) params() []*mat.Dense {
	return []*mat.Dense{n.w1, n.b1, n.wLabel, n.bLabel, n.wDomain, n.bDomain}
}

func (g *Gradients) list() []*mat.Dense {
	return []*mat.Dense{g.w1, g.b1, g.wLabel, g.bLabel, g.wDomain, g.bDomain}
}

// Step applies an update produced by an optimizer to every parameter in
// order. The optimizer owns the update rule; Step only pairs parameters
// with their gradients.
func (n *Net) Step(g *Gradients, update func(i int, param, grad *mat.Dense)) {
	params := n.params()
	grads := g.list()
	for i := range params {
		update(i, params[i], grads[i])
	}
}

// Predict returns the argmax label class per row, computed with alpha 0.
func (n *Net) Predict(x *mat.Dense) []int {
	labelLogits, _, _ := n.Forward(x, 0)
	rows, _ := labelLogits.Dims()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		best := 0
		for c := 1; c < NumClasses; c++ {
			if labelLogits.At(i, c) > labelLogits.At(i, best) {
				best = c
			}
		}
		out[i] = best
	}
	return out
}

func addRowVector(m, row *mat.Dense) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, m.At(i, j)+row.At(0, j))
		}
	}
}

func sumRows(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(1, cols, nil)
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += m.At(i, j)
		}
		out.Set(0, j, sum)
	}
	return out
}
