package main

import (
	"io/ioutil"
	"log"
	"math/rand"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"domainadapt/augment"
	"domainadapt/corpus"
	"domainadapt/feature"
	"domainadapt/model"
	"domainadapt/text"
	"domainadapt/train"
)

const selectedFeatures = 2000

func noErr(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

func main() {
	args := struct {
		Domain1    string  `arg:"required" help:"path to first training corpus (JSON lines)"`
		Domain2    string  `arg:"required" help:"path to second training corpus (JSON lines)"`
		Test       string  `arg:"required" help:"path to test corpus (JSON lines)"`
		Out        string  `arg:"required" help:"path to write id,class predictions to"`
		Config     string  `help:"optional YAML file overriding training hyperparameters"`
		Checkpoint string  `help:"optional path for a durable best-model checkpoint"`
		Seed       int64   `default:"42" help:"seed for the shared random source"`
		ValFrac    float64 `default:"0.2" help:"held-out validation fraction per label"`
		Augment1   float64 `default:"0.4" help:"augmentation ratio for the first corpus"`
		Augment2   float64 `default:"0.1" help:"augmentation ratio for the second corpus"`
	}{}
	arg.MustParse(&args)

	cfg := train.DefaultConfig()
	if args.Config != "" {
		buf, err := ioutil.ReadFile(args.Config)
		noErr(err)
		noErr(yaml.Unmarshal(buf, &cfg))
	}

	// one seed, one source: augmentation and batch shuffling draw from the
	// same rng in a fixed order, so runs reproduce bit for bit
	rng := rand.New(rand.NewSource(args.Seed))

	start := time.Now()
	samples1, err := corpus.LoadTraining(args.Domain1, 0)
	noErr(err)
	log.Printf("domain 1: %s", corpus.Summarize(samples1))
	samples2, err := corpus.LoadTraining(args.Domain2, 1)
	noErr(err)
	log.Printf("domain 2: %s", corpus.Summarize(samples2))

	train1, val1 := corpus.StratifiedSplit(samples1, args.ValFrac, rng)
	train2, val2 := corpus.StratifiedSplit(samples2, args.ValFrac, rng)

	aug1 := augment.Augment(train1, args.Augment1, rng)
	aug2 := augment.Augment(train2, args.Augment2, rng)
	log.Printf("augmented: domain 1 %d -> %d, domain 2 %d -> %d",
		len(train1), len(aug1), len(train2), len(aug2))

	combined := append(aug1, aug2...)
	docs := make([]text.Tokens, 0, len(combined))
	labels := make([]int, 0, len(combined))
	domains := make([]int, 0, len(combined))
	for _, s := range combined {
		docs = append(docs, s.Tokens)
		labels = append(labels, s.Label)
		domains = append(domains, s.Domain)
	}

	vectorizer, err := feature.TrainVectorizer(docs, feature.DefaultOptions())
	noErr(err)
	log.Printf("vocabulary: %d terms", vectorizer.NumFeatures())

	vectors := make([][]float64, 0, len(docs))
	noErr(tqdm.With(iterators.Interval(0, len(docs)), "vectorizing", func(c interface{}) (brk bool) {
		vectors = append(vectors, vectorizer.Transform(docs[c.(int)]))
		return
	}))

	selector, err := feature.TrainSelector(vectors, labels, selectedFeatures)
	noErr(err)
	pipe := feature.Pipeline{Vectorizer: vectorizer, Selector: selector}
	log.Printf("selected %d of %d features", selector.NumFeatures(), vectorizer.NumFeatures())

	trainSet, err := train.NewDataset(selector.ProjectAll(vectors), labels, domains)
	noErr(err)
	valSet1, err := train.NewDataset(transformSamples(pipe, val1), sampleLabels(val1), nil)
	noErr(err)
	valSet2, err := train.NewDataset(transformSamples(pipe, val2), sampleLabels(val2), nil)
	noErr(err)

	var store *train.CheckpointStore
	if args.Checkpoint != "" {
		store = train.NewCheckpointStore(afero.NewOsFs(), args.Checkpoint)
	}

	net := model.NewNet(pipe.NumFeatures(), cfg.Hidden, cfg.Dropout, rng)
	trainer, err := train.NewTrainer(cfg, rng, store)
	noErr(err)
	trainer.Progress = func(cp train.Checkpoint) {
		marker := ""
		if cp.Improved {
			marker = " *"
		}
		log.Printf("epoch %d: loss %.4f, weighted %.4f (d1 %.4f, d2 %.4f)%s",
			cp.Epoch, cp.TrainLoss, cp.Weighted, cp.Acc1, cp.Acc2, marker)
	}

	result, err := trainer.Run(net, trainSet, valSet1, valSet2)
	noErr(err)
	log.Printf("best: weighted %.4f (d1 %.4f, d2 %.4f) at epoch %d, stopped after %d epochs",
		result.BestWeighted, result.BestAcc1, result.BestAcc2, result.BestEpoch, result.Epochs)

	testSamples, err := corpus.LoadTest(args.Test)
	noErr(err)
	testVectors := make([][]float64, 0, len(testSamples))
	noErr(tqdm.With(iterators.Interval(0, len(testSamples)), "vectorizing test", func(c interface{}) (brk bool) {
		testVectors = append(testVectors, pipe.Transform(testSamples[c.(int)].Tokens))
		return
	}))
	testSet, err := train.NewDataset(testVectors, make([]int, len(testVectors)), nil)
	noErr(err)

	classes := net.Predict(testSet.X)
	preds := make([]corpus.Prediction, 0, len(testSamples))
	for i, s := range testSamples {
		preds = append(preds, corpus.Prediction{ID: s.ID, Class: classes[i]})
	}

	noErr(corpus.WritePredictionsFile(args.Out, preds))
	log.Printf("wrote %d predictions to %s", len(preds), args.Out)
	log.Printf("done in %s", time.Since(start))
}

func transformSamples(pipe feature.Pipeline, samples []corpus.Sample) [][]float64 {
	out := make([][]float64, 0, len(samples))
	for _, s := range samples {
		out = append(out, pipe.Transform(s.Tokens))
	}
	return out
}

func sampleLabels(samples []corpus.Sample) []int {
	out := make([]int, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.Label)
	}
	return out
}
