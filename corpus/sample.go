package corpus

import (
	"encoding/json"

	"domainadapt/errors"
	"domainadapt/text"
)

// Sample is one labeled training row. Domain records which corpus file the
// row (or the row it was augmented from) came from; it is assigned at load
// time and never reconstructed from labels.
type Sample struct {
	Tokens text.Tokens
	Label  int
	Domain int
}

// TestSample is one unlabeled test row. ID is opaque and preserved verbatim
// into the predictions file.
type TestSample struct {
	Tokens text.Tokens
	ID     string
}

// tokenField decodes the `text` field of a corpus record. Upstream
// tokenizers emit either an array of numeric token ids, an array of string
// tokens, or a single pre-joined string; all three normalize to Tokens.
type tokenField text.Tokens

// UnmarshalJSON implements json.Unmarshaler.
func (t *tokenField) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err == nil {
		toks := make(text.Tokens, 0, len(raw))
		for _, r := range raw {
			var s string
			if err := json.Unmarshal(r, &s); err == nil {
				toks = append(toks, s)
				continue
			}
			var n json.Number
			if err := json.Unmarshal(r, &n); err != nil {
				return errors.Wrapf(err, "token is neither string nor number")
			}
			toks = append(toks, n.String())
		}
		*t = tokenField(toks)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrapf(err, "text is neither array nor string")
	}
	*t = tokenField(text.Tokenize(s))
	return nil
}

type trainRecord struct {
	Text  tokenField `json:"text"`
	Label *int       `json:"label"`
}

type testRecord struct {
	Text tokenField `json:"text"`
	ID   idField    `json:"id"`
}

// idField decodes an opaque record id, which may arrive as a JSON string or
// number. Either way the textual form is preserved verbatim.
type idField string

// UnmarshalJSON implements json.Unmarshaler.
func (id *idField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = idField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrapf(err, "id is neither string nor number")
	}
	*id = idField(n.String())
	return nil
}
