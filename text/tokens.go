package text

import "strings"

// Tokens represents a slice of string tokens.
type Tokens []string

// Tokenize splits a string on whitespace. The corpora carry token
// identifiers rendered as whitespace-joined text, so no further
// normalization is applied.
func Tokenize(s string) Tokens {
	return Tokens(strings.Fields(s))
}

// Join renders the tokens back into whitespace-joined text.
func (ts Tokens) Join() string {
	return strings.Join(ts, " ")
}

// Copy returns an independent copy of the tokens.
func (ts Tokens) Copy() Tokens {
	out := make(Tokens, len(ts))
	copy(out, ts)
	return out
}
