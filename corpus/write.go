package corpus

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"domainadapt/errors"
)

// Prediction is one output row of the pipeline.
type Prediction struct {
	ID    string `csv:"id"`
	Class int    `csv:"class"`
}

// WritePredictions writes the predictions as a two-column table with an
// `id,class` header, one row per test input, in the given order.
func WritePredictions(w io.Writer, preds []Prediction) error {
	return errors.WrapfOrNil(gocsv.Marshal(&preds, w), "error writing predictions")
}

// WritePredictionsFile writes the predictions to a file at path.
func WritePredictionsFile(path string, preds []Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}
	defer f.Close()
	return WritePredictions(f, preds)
}
