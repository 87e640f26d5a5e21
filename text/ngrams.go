package text

import "strings"

// NGrams constructs the n grams (of order n) for the given token stream.
func NGrams(n int, toks Tokens) []string {
	if n < 1 || len(toks) < n {
		return nil
	}
	var nGrams []string
	for i := 0; i+n <= len(toks); i++ {
		nGrams = append(nGrams, strings.Join(toks[i:i+n], " "))
	}
	return nGrams
}

// Terms returns the vectorizer terms for a token stream: all unigrams
// followed by all bigrams, each bigram joined with a single space.
func Terms(toks Tokens) []string {
	terms := make([]string, 0, 2*len(toks))
	terms = append(terms, toks...)
	terms = append(terms, NGrams(2, toks)...)
	return terms
}
