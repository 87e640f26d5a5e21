package model

import (
	"gonum.org/v1/gonum/mat"

	"domainadapt/errors"
)

// ParamData is the flat form of one parameter matrix.
type ParamData struct {
	Rows, Cols int
	Data       []float64
}

// Snapshot is a full copy of the network parameters, suitable for in-memory
// best-checkpoint retention and for gob encoding.
type Snapshot struct {
	InputDim  int
	HiddenDim int
	Dropout   float64
	Params    []ParamData
}

// Snapshot copies the current parameters.
func (n *Net) Snapshot() Snapshot {
	s := Snapshot{
		InputDim:  n.inputDim,
		HiddenDim: n.hiddenDim,
		Dropout:   n.dropout,
	}
	for _, p := range n.params() {
		rows, cols := p.Dims()
		data := make([]float64, rows*cols)
		copy(data, p.RawMatrix().Data)
		s.Params = append(s.Params, ParamData{Rows: rows, Cols: cols, Data: data})
	}
	return s
}

// Restore copies snapshot parameters back into the live network.
func (n *Net) Restore(s Snapshot) error {
	params := n.params()
	if len(s.Params) != len(params) {
		return errors.Errorf("snapshot has %d parameter blocks, want %d", len(s.Params), len(params))
	}
	if s.InputDim != n.inputDim || s.HiddenDim != n.hiddenDim {
		return errors.Errorf("snapshot dims %dx%d do not match net %dx%d",
			s.InputDim, s.HiddenDim, n.inputDim, n.hiddenDim)
	}
	for i, p := range params {
		rows, cols := p.Dims()
		if s.Params[i].Rows != rows || s.Params[i].Cols != cols {
			return errors.Errorf("parameter %d is %dx%d, want %dx%d",
				i, s.Params[i].Rows, s.Params[i].Cols, rows, cols)
		}
		copy(p.RawMatrix().Data, s.Params[i].Data)
	}
	return nil
}

// FromSnapshot builds a network directly from a snapshot, in evaluation
// mode with no rng. It is used when loading a durable checkpoint for
// inference only.
func FromSnapshot(s Snapshot) (*Net, error) {
	n := &Net{
		inputDim:  s.InputDim,
		hiddenDim: s.HiddenDim,
		dropout:   s.Dropout,
	}
	if len(s.Params) != 6 {
		return nil, errors.Errorf("snapshot has %d parameter blocks, want 6", len(s.Params))
	}
	blocks := make([]*mat.Dense, len(s.Params))
	for i, p := range s.Params {
		if len(p.Data) != p.Rows*p.Cols {
			return nil, errors.Errorf("parameter %d has %d values, want %d", i, len(p.Data), p.Rows*p.Cols)
		}
		data := make([]float64, len(p.Data))
		copy(data, p.Data)
		blocks[i] = mat.NewDense(p.Rows, p.Cols, data)
	}
	n.w1, n.b1 = blocks[0], blocks[1]
	n.wLabel, n.bLabel = blocks[2], blocks[3]
	n.wDomain, n.bDomain = blocks[4], blocks[5]
	return n, nil
}
