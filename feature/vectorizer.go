// Package feature turns token streams into fixed-width numeric vectors: a
// tf-idf weighting over a frozen unigram+bigram vocabulary, followed by a
// chi-squared top-K column selection. Both stages are fit exactly once on
// training data and are immutable afterwards.
package feature

import (
	"math"
	"sort"

	"domainadapt/errors"
	"domainadapt/text"
)

// Options control vocabulary construction.
type Options struct {
	// MinDocFreq drops terms appearing in fewer documents than this.
	MinDocFreq int
	// MaxDocFrac drops terms appearing in more than this fraction of
	// documents.
	MaxDocFrac float64
	// MaxFeatures caps the vocabulary at the most frequent surviving
	// terms.
	MaxFeatures int
}

// DefaultOptions returns the pipeline's standard vocabulary settings.
func DefaultOptions() Options {
	return Options{
		MinDocFreq:  3,
		MaxDocFrac:  0.95,
		MaxFeatures: 3000,
	}
}

// Vectorizer maps token streams to dense tf-idf vectors under a frozen
// vocabulary. Terms outside the vocabulary contribute nothing; transforming
// never refits.
type Vectorizer struct {
	// Vocab maps a term to its column index.
	Vocab map[string]int
	// IDF holds the inverse-document-frequency weight per column.
	IDF []float64
}

// TrainVectorizer builds a vocabulary of unigrams and bigrams over docs and
// computes smoothed idf weights. Terms must appear in at least
// opts.MinDocFreq documents and at most opts.MaxDocFrac of them; the
// survivors are capped at the opts.MaxFeatures highest-count terms.
func TrainVectorizer(docs []text.Tokens, opts Options) (*Vectorizer, error) {
	if len(docs) == 0 {
		return nil, errors.Errorf("no documents to fit vectorizer on")
	}

	docFreq := make(map[string]int)
	termCount := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range text.Terms(doc) {
			termCount[term]++
			if !seen[term] {
				docFreq[term]++
				seen[term] = true
			}
		}
	}

	maxDocs := int(opts.MaxDocFrac * float64(len(docs)))
	var kept []string
	for term, df := range docFreq {
		if df < opts.MinDocFreq || df > maxDocs {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return nil, errors.Errorf("no terms survived document-frequency filtering")
	}

	if opts.MaxFeatures > 0 && len(kept) > opts.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if termCount[kept[i]] == termCount[kept[j]] {
				return kept[i] < kept[j]
			}
			return termCount[kept[i]] > termCount[kept[j]]
		})
		kept = kept[:opts.MaxFeatures]
	}

	// columns are assigned in lexicographic term order so the fitted
	// space is independent of map iteration
	sort.Strings(kept)

	v := &Vectorizer{
		Vocab: make(map[string]int, len(kept)),
		IDF:   make([]float64, len(kept)),
	}
	n := float64(len(docs))
	for col, term := range kept {
		v.Vocab[term] = col
		v.IDF[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v, nil
}

// NumFeatures returns the width of transformed vectors.
func (v *Vectorizer) NumFeatures() int {
	return len(v.IDF)
}

// Transform maps a token stream to a dense vector of sublinear-tf times idf
// weights, L2-normalized. It is a pure function of the frozen vocabulary.
func (v *Vectorizer) Transform(toks text.Tokens) []float64 {
	vec := make([]float64, len(v.IDF))

	counts := make(map[int]int)
	for _, term := range text.Terms(toks) {
		if col, ok := v.Vocab[term]; ok {
			counts[col]++
		}
	}

	var norm float64
	for col, count := range counts {
		w := (1 + math.Log(float64(count))) * v.IDF[col]
		vec[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range counts {
			vec[col] /= norm
		}
	}
	return vec
}

// TransformAll transforms a batch of token streams.
func (v *Vectorizer) TransformAll(docs []text.Tokens) [][]float64 {
	out := make([][]float64, 0, len(docs))
	for _, doc := range docs {
		out = append(out, v.Transform(doc))
	}
	return out
}
