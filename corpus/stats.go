package corpus

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a split. It's mostly used to pick the fixed sequence length.
type Stats struct {
	NumSentences int
	NumTokens    int

	MeanLength float64
	MaxLength  int

	// Percentiles of the sentence length, keyed by the percentile (e.g. 95).
	Percentiles map[int]float64

	// TagCounts counts tokens per normalized tag.
	TagCounts map[string]int
}

// DefaultPercentiles reported by Describe.
var DefaultPercentiles = []int{50, 90, 95, 99}

// Describe aggregates length and tag statistics over the sentences.
func Describe(sentences []Sentence) Stats {
	stats := Stats{
		NumSentences: len(sentences),
		Percentiles:  make(map[int]float64, len(DefaultPercentiles)),
		TagCounts:    make(map[string]int),
	}
	if len(sentences) == 0 {
		return stats
	}

	lengths := make([]float64, len(sentences))
	for ii, s := range sentences {
		n := len(s.Tokens)
		lengths[ii] = float64(n)
		stats.NumTokens += n
		if n > stats.MaxLength {
			stats.MaxLength = n
		}
		for _, t := range s.Tokens {
			stats.TagCounts[t.Tag]++
		}
	}
	stats.MeanLength = stat.Mean(lengths, nil)

	sort.Float64s(lengths)
	for _, p := range DefaultPercentiles {
		stats.Percentiles[p] = stat.Quantile(float64(p)/100, stat.Empirical, lengths, nil)
	}
	return stats
}
