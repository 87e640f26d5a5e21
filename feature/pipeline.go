package feature

import "domainadapt/text"

// Pipeline composes a fitted Vectorizer with a fitted Selector so callers
// can go straight from tokens to the selected feature space.
type Pipeline struct {
	Vectorizer *Vectorizer
	Selector   *Selector
}

// NumFeatures returns the width of the selected feature space.
func (p Pipeline) NumFeatures() int {
	return p.Selector.NumFeatures()
}

// Transform maps tokens through both fitted stages.
func (p Pipeline) Transform(toks text.Tokens) []float64 {
	return p.Selector.Project(p.Vectorizer.Transform(toks))
}
