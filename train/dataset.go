// Package train runs mini-batch gradient descent over the adversarial
// classifier with periodic validation, best-checkpoint retention, and
// early stopping.
package train

import (
	"gonum.org/v1/gonum/mat"

	"domainadapt/errors"
)

// Dataset pairs a dense feature matrix with per-row labels and, for
// training data, per-row domain tags.
type Dataset struct {
	X       *mat.Dense
	Labels  []int
	Domains []int
}

// NewDataset builds a Dataset from row vectors. domains may be nil for
// validation sets, which only need labels.
func NewDataset(rows [][]float64, labels, domains []int) (Dataset, error) {
	if len(rows) == 0 {
		return Dataset{}, errors.Errorf("empty dataset")
	}
	if len(rows) != len(labels) {
		return Dataset{}, errors.Errorf("got %d rows but %d labels", len(rows), len(labels))
	}
	if domains != nil && len(domains) != len(rows) {
		return Dataset{}, errors.Errorf("got %d rows but %d domain tags", len(rows), len(domains))
	}

	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return Dataset{}, errors.Errorf("row %d has width %d, want %d", i, len(row), width)
		}
		data = append(data, row...)
	}
	return Dataset{
		X:       mat.NewDense(len(rows), width, data),
		Labels:  labels,
		Domains: domains,
	}, nil
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.Labels)
}

// subset copies the given rows into a new batch.
func (d Dataset) subset(idx []int) Dataset {
	_, width := d.X.Dims()
	data := make([]float64, 0, len(idx)*width)
	labels := make([]int, 0, len(idx))
	var domains []int
	if d.Domains != nil {
		domains = make([]int, 0, len(idx))
	}
	for _, i := range idx {
		data = append(data, d.X.RawRowView(i)...)
		labels = append(labels, d.Labels[i])
		if d.Domains != nil {
			domains = append(domains, d.Domains[i])
		}
	}
	return Dataset{
		X:       mat.NewDense(len(idx), width, data),
		Labels:  labels,
		Domains: domains,
	}
}
