package feature

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"domainadapt/errors"
)

// Selector projects fitted vectors onto the columns most dependent on the
// label, in fixed ascending order.
type Selector struct {
	// Columns holds the retained column indices, ascending.
	Columns []int
}

// TrainSelector scores every column of X by a chi-squared statistic between
// the (non-negative) column mass per class and the class priors, and keeps
// the k highest-scoring columns. Rows of X must share one width and y must
// be parallel to X.
func TrainSelector(X [][]float64, y []int, k int) (*Selector, error) {
	if len(X) == 0 {
		return nil, errors.Errorf("no rows to fit selector on")
	}
	if len(X) != len(y) {
		return nil, errors.Errorf("got %d rows but %d labels", len(X), len(y))
	}
	width := len(X[0])

	classes := make(map[int]int)
	for _, label := range y {
		classes[label]++
	}

	// observed per-class column mass
	observed := make(map[int][]float64, len(classes))
	for label := range classes {
		observed[label] = make([]float64, width)
	}
	for i, row := range X {
		if len(row) != width {
			return nil, errors.Errorf("row %d has width %d, want %d", i, len(row), width)
		}
		obs := observed[y[i]]
		for j, x := range row {
			obs[j] += x
		}
	}

	scores := make([]float64, width)
	n := float64(len(X))
	for j := 0; j < width; j++ {
		var total float64
		for _, obs := range observed {
			total += obs[j]
		}
		if total == 0 {
			continue
		}
		for label, obs := range observed {
			expected := total * float64(classes[label]) / n
			if expected == 0 {
				continue
			}
			diff := obs[j] - expected
			scores[j] += diff * diff / expected
		}
	}

	if k > width {
		k = width
	}
	inds := make([]int, width)
	sorted := make([]float64, width)
	copy(sorted, scores)
	floats.Argsort(sorted, inds)

	cols := make([]int, k)
	copy(cols, inds[width-k:])
	sort.Ints(cols)
	return &Selector{Columns: cols}, nil
}

// NumFeatures returns the width of projected vectors.
func (s *Selector) NumFeatures() int {
	return len(s.Columns)
}

// Project maps a full-width vector onto the retained columns.
func (s *Selector) Project(vec []float64) []float64 {
	out := make([]float64, len(s.Columns))
	for i, col := range s.Columns {
		out[i] = vec[col]
	}
	return out
}

// ProjectAll projects a batch of vectors.
func (s *Selector) ProjectAll(X [][]float64) [][]float64 {
	out := make([][]float64, 0, len(X))
	for _, vec := range X {
		out = append(out, s.Project(vec))
	}
	return out
}
