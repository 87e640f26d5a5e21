package train

import (
	"encoding/gob"

	"github.com/spf13/afero"

	"domainadapt/errors"
	"domainadapt/model"
)

// CheckpointStore persists best-so-far parameter snapshots. The best
// snapshot is always retained in memory by the trainer; a store only adds a
// durable copy that survives the process.
type CheckpointStore struct {
	fs   afero.Fs
	path string
}

// NewCheckpointStore writes checkpoints to path on the given filesystem.
func NewCheckpointStore(fs afero.Fs, path string) *CheckpointStore {
	return &CheckpointStore{fs: fs, path: path}
}

// Save overwrites the stored checkpoint with the given snapshot.
func (s *CheckpointStore) Save(snap model.Snapshot) error {
	f, err := s.fs.Create(s.path)
	if err != nil {
		return errors.Wrapf(err, "error creating checkpoint %s", s.path)
	}
	defer f.Close()
	return errors.WrapfOrNil(gob.NewEncoder(f).Encode(snap), "error encoding checkpoint %s", s.path)
}

// Load reads the stored checkpoint.
func (s *CheckpointStore) Load() (model.Snapshot, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return model.Snapshot{}, errors.Wrapf(err, "error opening checkpoint %s", s.path)
	}
	defer f.Close()

	var snap model.Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return model.Snapshot{}, errors.Wrapf(err, "error decoding checkpoint %s", s.path)
	}
	return snap, nil
}
