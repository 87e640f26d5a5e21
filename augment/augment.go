// Package augment grows a training corpus by emitting lightly perturbed
// copies of samples, preserving labels and domain tags.
package augment

import (
	"math"
	"math/rand"

	"domainadapt/corpus"
	"domainadapt/text"
)

const (
	// minTokens is the smallest token count eligible for perturbation.
	// Shorter texts are always passed through unchanged.
	minTokens = 4

	// shuffleFrac is the fraction of token positions whose values are
	// permuted in a perturbed copy.
	shuffleFrac = 0.2
)

// Augment emits every input sample unchanged, in input order, and with
// independent probability ratio additionally emits a perturbed copy
// immediately after its original. Perturbation permutes the values at
// ceil(shuffleFrac * n) distinct positions (at least one) and leaves every
// other position untouched, so the copy is a pure permutation of the
// original token multiset.
func Augment(samples []corpus.Sample, ratio float64, rng *rand.Rand) []corpus.Sample {
	out := make([]corpus.Sample, 0, len(samples))
	for _, s := range samples {
		out = append(out, s)
		if rng.Float64() >= ratio {
			continue
		}
		if len(s.Tokens) < minTokens {
			continue
		}
		out = append(out, corpus.Sample{
			Tokens: shuffleTokens(s.Tokens, rng),
			Label:  s.Label,
			Domain: s.Domain,
		})
	}
	return out
}

// shuffleTokens returns a copy of toks with the values at a small random
// set of positions permuted among themselves.
func shuffleTokens(toks text.Tokens, rng *rand.Rand) text.Tokens {
	n := len(toks)
	k := int(math.Ceil(shuffleFrac * float64(n)))
	if k < 1 {
		k = 1
	}

	positions := rng.Perm(n)[:k]
	perm := rng.Perm(k)

	out := toks.Copy()
	for i, p := range positions {
		out[p] = toks[positions[perm[i]]]
	}
	return out
}
