package train

import (
	"math"
	"math/rand"

	"domainadapt/errors"
	"domainadapt/model"
)

// Config holds the training hyperparameters.
type Config struct {
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	WeightDecay  float64 `yaml:"weight_decay"`
	DomainWeight float64 `yaml:"domain_weight"`
	Alpha        float64 `yaml:"alpha"`
	EvalEvery    int     `yaml:"eval_every"`
	Patience     int     `yaml:"patience"`
	Hidden       int     `yaml:"hidden"`
	Dropout      float64 `yaml:"dropout"`
}

// DefaultConfig returns the reference training regime.
func DefaultConfig() Config {
	return Config{
		Epochs:       20,
		BatchSize:    64,
		LearningRate: 0.0012,
		WeightDecay:  1e-5,
		DomainWeight: 0.05,
		Alpha:        0.03,
		EvalEvery:    5,
		Patience:     3,
		Hidden:       160,
		Dropout:      0.5,
	}
}

func (c Config) validate() error {
	if c.Epochs < 1 || c.BatchSize < 1 || c.EvalEvery < 1 || c.Patience < 1 {
		return errors.Errorf("epochs, batch size, eval interval, and patience must be positive")
	}
	if c.LearningRate <= 0 {
		return errors.Errorf("learning rate must be positive")
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return errors.Errorf("dropout must be in [0, 1)")
	}
	return nil
}

// Checkpoint records one validation pass.
type Checkpoint struct {
	Epoch     int
	TrainLoss float64
	Weighted  float64
	Acc1      float64
	Acc2      float64
	Improved  bool
}

// Result summarizes a training run. The trained network always carries the
// parameters of the best checkpoint, never the last epoch's.
type Result struct {
	BestWeighted float64
	BestAcc1     float64
	BestAcc2     float64
	BestEpoch    int
	Epochs       int
	EarlyStopped bool
	History      []Checkpoint
}

// Trainer owns the model parameters during training.
type Trainer struct {
	cfg   Config
	rng   *rand.Rand
	store *CheckpointStore

	// Progress, when set, is called after every validation pass.
	Progress func(Checkpoint)
}

// NewTrainer builds a trainer. rng drives batch shuffling and must be the
// shared run-level source; store may be nil for in-memory-only
// checkpointing.
func NewTrainer(cfg Config, rng *rand.Rand, store *CheckpointStore) (*Trainer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Trainer{cfg: cfg, rng: rng, store: store}, nil
}

// Run trains net on the combined training set, validating on the two
// held-out per-domain sets. Every batch steps the optimizer on the gradient
// of labelLoss + DomainWeight*domainLoss, with the domain branch reversed
// by Alpha inside the network. Validation runs on epochs divisible by
// EvalEvery; a strict improvement of weighted accuracy snapshots the
// parameters, and Patience validations without improvement stop the run
// early. On exit the best snapshot is restored into net.
func (t *Trainer) Run(net *model.Net, training, val1, val2 Dataset) (Result, error) {
	if training.Domains == nil {
		return Result{}, errors.Errorf("training dataset has no domain tags")
	}

	opt := NewAdam(t.cfg.LearningRate, t.cfg.WeightDecay)
	net.SetTraining(true)

	result := Result{BestWeighted: math.Inf(-1)}
	var best model.Snapshot
	var haveBest bool
	var patience int

	n := training.Len()
	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		result.Epochs = epoch

		perm := t.rng.Perm(n)
		var epochLoss float64
		var batches int
		for start := 0; start < n; start += t.cfg.BatchSize {
			end := start + t.cfg.BatchSize
			if end > n {
				end = n
			}
			batch := training.subset(perm[start:end])

			labelLogits, domainLogits, cache := net.Forward(batch.X, t.cfg.Alpha)
			labelLoss, dLabel := crossEntropy(labelLogits, batch.Labels)
			domainLoss, dDomain := crossEntropy(domainLogits, batch.Domains)
			dDomain.Scale(t.cfg.DomainWeight, dDomain)

			grads := net.Backward(cache, dLabel, dDomain)
			opt.BeginStep()
			net.Step(grads, opt.Update)

			epochLoss += labelLoss + t.cfg.DomainWeight*domainLoss
			batches++
		}

		if epoch%t.cfg.EvalEvery != 0 {
			continue
		}

		weighted, acc1, acc2 := Evaluate(net, val1, val2)
		cp := Checkpoint{
			Epoch:     epoch,
			TrainLoss: epochLoss / float64(batches),
			Weighted:  weighted,
			Acc1:      acc1,
			Acc2:      acc2,
		}

		if weighted > result.BestWeighted {
			cp.Improved = true
			result.BestWeighted = weighted
			result.BestAcc1 = acc1
			result.BestAcc2 = acc2
			result.BestEpoch = epoch
			best = net.Snapshot()
			haveBest = true
			patience = 0
			if t.store != nil {
				if err := t.store.Save(best); err != nil {
					return result, err
				}
			}
		} else {
			patience++
		}

		result.History = append(result.History, cp)
		if t.Progress != nil {
			t.Progress(cp)
		}

		if patience >= t.cfg.Patience {
			result.EarlyStopped = true
			break
		}
	}

	if haveBest {
		if err := net.Restore(best); err != nil {
			return result, err
		}
	}
	net.SetTraining(false)
	return result, nil
}
