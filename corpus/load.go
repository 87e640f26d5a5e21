package corpus

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"strings"

	"domainadapt/errors"
	"domainadapt/text"
)

// decodeStream extracts newline-delimited JSON records from r and passes
// each to the handler until EOF.
func decodeStream(r io.Reader, handler func(*json.RawMessage) error) error {
	d := json.NewDecoder(r)
	for {
		var elem json.RawMessage
		err := d.Decode(&elem)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handler(&elem); err != nil {
			return err
		}
	}
}

// decodeFile opens path and streams its records through the handler. If the
// path ends with .gz the contents are decompressed first.
func decodeFile(path string, handler func(*json.RawMessage) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "error opening %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return errors.Wrapf(err, "error decompressing %s", path)
		}
		defer gz.Close()
		r = gz
	}
	return errors.WrapfOrNil(decodeStream(r, handler), "error decoding %s", path)
}

// LoadTraining reads a line-delimited JSON training corpus. Every record
// must have `text` and `label` fields; the given domain tag is stamped onto
// each row.
func LoadTraining(path string, domain int) ([]Sample, error) {
	var samples []Sample
	err := decodeFile(path, func(raw *json.RawMessage) error {
		var rec trainRecord
		if err := json.Unmarshal(*raw, &rec); err != nil {
			return err
		}
		if rec.Label == nil {
			return errors.Errorf("record %d has no label", len(samples))
		}
		samples = append(samples, Sample{
			Tokens: text.Tokens(rec.Text),
			Label:  *rec.Label,
			Domain: domain,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// LoadTest reads a line-delimited JSON test corpus with `text` and `id`
// fields, preserving input order.
func LoadTest(path string) ([]TestSample, error) {
	var samples []TestSample
	err := decodeFile(path, func(raw *json.RawMessage) error {
		var rec testRecord
		if err := json.Unmarshal(*raw, &rec); err != nil {
			return err
		}
		if rec.ID == "" {
			return errors.Errorf("record %d has no id", len(samples))
		}
		samples = append(samples, TestSample{
			Tokens: text.Tokens(rec.Text),
			ID:     string(rec.ID),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}
