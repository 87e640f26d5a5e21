package corpus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Summary describes a loaded corpus: row count, per-label counts, and
// token-count statistics.
type Summary struct {
	Count        int
	LabelCounts  map[int]int
	MeanTokens   float64
	MedianTokens float64
}

// Summarize computes a Summary for the given samples.
func Summarize(samples []Sample) Summary {
	summary := Summary{
		Count:       len(samples),
		LabelCounts: make(map[int]int),
	}
	if len(samples) == 0 {
		return summary
	}

	lengths := make(stats.Float64Data, 0, len(samples))
	for _, s := range samples {
		summary.LabelCounts[s.Label]++
		lengths = append(lengths, float64(len(s.Tokens)))
	}

	// both error only on empty data, which is excluded above
	summary.MeanTokens, _ = stats.Mean(lengths)
	summary.MedianTokens, _ = stats.Median(lengths)
	return summary
}

// String renders the summary for logging.
func (s Summary) String() string {
	labels := make([]int, 0, len(s.LabelCounts))
	for label := range s.LabelCounts {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%d:%d", label, s.LabelCounts[label]))
	}
	return fmt.Sprintf("%d samples (labels %s), tokens mean %.1f median %.1f",
		s.Count, strings.Join(parts, " "), s.MeanTokens, s.MedianTokens)
}
