package corpus

import (
	"math"
	"math/rand"
	"sort"
)

// StratifiedSplit holds out valFrac of the samples per label value as a
// validation set. Samples are shuffled within each label group using the
// shared rng, so the split is reproducible given a fixed seed and draw
// order.
func StratifiedSplit(samples []Sample, valFrac float64, rng *rand.Rand) (train, val []Sample) {
	groups := make(map[int][]int)
	for i, s := range samples {
		groups[s.Label] = append(groups[s.Label], i)
	}

	labels := make([]int, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	for _, label := range labels {
		idx := groups[label]
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		nVal := int(math.Round(valFrac * float64(len(idx))))
		for _, i := range idx[:nVal] {
			val = append(val, samples[i])
		}
		for _, i := range idx[nVal:] {
			train = append(train, samples[i])
		}
	}
	return train, val
}
