package augment

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainadapt/corpus"
	"domainadapt/text"
)

func sample(label, domain int, toks ...string) corpus.Sample {
	return corpus.Sample{Tokens: text.Tokens(toks), Label: label, Domain: domain}
}

func sorted(toks text.Tokens) []string {
	out := append([]string(nil), toks...)
	sort.Strings(out)
	return out
}

func TestAugmentZeroRatio(t *testing.T) {
	samples := []corpus.Sample{
		sample(0, 0, "1", "2", "3", "4", "5"),
		sample(1, 0, "6", "7", "8", "9"),
	}

	out := Augment(samples, 0, rand.New(rand.NewSource(1)))
	assert.Equal(t, samples, out)
}

func TestAugmentShortTexts(t *testing.T) {
	// texts with three or fewer tokens are never duplicated, even at
	// ratio 1
	samples := []corpus.Sample{
		sample(0, 0, "1"),
		sample(1, 0, "1", "2"),
		sample(0, 1, "1", "2", "3"),
	}

	out := Augment(samples, 1, rand.New(rand.NewSource(1)))
	assert.Equal(t, samples, out)
}

func TestAugmentFullRatio(t *testing.T) {
	samples := []corpus.Sample{
		sample(0, 0, "1", "2", "3", "4", "5", "6"),
		sample(1, 1, "a", "b", "c", "d", "e", "f", "g", "h", "i", "j"),
	}

	out := Augment(samples, 1, rand.New(rand.NewSource(1)))
	require.Len(t, out, 4)

	// original-then-augmented, per input, in input order
	assert.Equal(t, samples[0], out[0])
	assert.Equal(t, samples[1], out[2])

	for _, pair := range [][2]corpus.Sample{{out[0], out[1]}, {out[2], out[3]}} {
		orig, aug := pair[0], pair[1]
		assert.Equal(t, orig.Label, aug.Label)
		assert.Equal(t, orig.Domain, aug.Domain)

		// pure permutation: the token multiset is unchanged
		assert.Equal(t, sorted(orig.Tokens), sorted(aug.Tokens))

		// at most ceil(20%) of positions differ
		maxChanged := int(math.Ceil(0.2 * float64(len(orig.Tokens))))
		var changed int
		for i := range orig.Tokens {
			if orig.Tokens[i] != aug.Tokens[i] {
				changed++
			}
		}
		assert.LessOrEqual(t, changed, maxChanged)
	}
}

func TestAugmentDoesNotMutateInput(t *testing.T) {
	samples := []corpus.Sample{
		sample(0, 0, "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"),
	}
	orig := samples[0].Tokens.Copy()

	for seed := int64(0); seed < 20; seed++ {
		Augment(samples, 1, rand.New(rand.NewSource(seed)))
	}
	assert.Equal(t, orig, samples[0].Tokens)
}

func TestAugmentRatioRoughlyHolds(t *testing.T) {
	samples := make([]corpus.Sample, 1000)
	for i := range samples {
		samples[i] = sample(0, 0, "1", "2", "3", "4", "5")
	}

	out := Augment(samples, 0.4, rand.New(rand.NewSource(3)))
	augmented := len(out) - len(samples)
	assert.Greater(t, augmented, 300)
	assert.Less(t, augmented, 500)
}

func TestAugmentDeterministic(t *testing.T) {
	samples := []corpus.Sample{
		sample(0, 0, "1", "2", "3", "4", "5", "6", "7"),
		sample(1, 1, "8", "9", "10", "11", "12"),
	}

	outA := Augment(samples, 0.5, rand.New(rand.NewSource(11)))
	outB := Augment(samples, 0.5, rand.New(rand.NewSource(11)))
	assert.Equal(t, outA, outB)
}
