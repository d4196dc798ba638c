package summary

import (
	"cmp"
	"errors"
	"slices"
)

const (
	luhnMaxGap          = 4
	luhnSignificantFrac = 0.1
	luhnMinFrequency    = 2
)

var errNoSignificant = errors.New("no term occurs often enough to be significant")

// luhn rates sentences by their densest chunk of significant (frequent) words.
type luhn struct{}

func (luhn) Name() string { return MethodLuhn }

func (luhn) Select(doc *document, n int) ([]int, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	significant := significantWords(doc)
	if len(significant) == 0 {
		return nil, errNoSignificant
	}
	ratings := make([]float64, doc.len())
	for i, ts := range doc.terms {
		ratings[i] = chunkRating(ts, significant)
	}
	return pick(ratings, n), nil
}

// significantWords keeps the most frequent terms that occur more than once.
func significantWords(doc *document) map[string]struct{} {
	freq := map[string]int{}
	var order []string
	for _, ts := range doc.terms {
		for _, t := range ts {
			if freq[t] == 0 {
				order = append(order, t)
			}
			freq[t]++
		}
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return cmp.Compare(freq[b], freq[a])
	})
	keep := max(1, int(float64(len(order))*luhnSignificantFrac+0.5))
	if keep > len(order) {
		keep = len(order)
	}

	out := map[string]struct{}{}
	for _, t := range order[:keep] {
		if freq[t] >= luhnMinFrequency {
			out[t] = struct{}{}
		}
	}
	return out
}

// chunkRating scores the best run of significant words whose gaps stay within luhnMaxGap.
func chunkRating(terms []string, significant map[string]struct{}) float64 {
	best := 0.0
	start, last, hits := -1, -1, 0

	flush := func() {
		if hits == 0 {
			return
		}
		length := float64(last - start + 1)
		best = max(best, float64(hits*hits)/length)
	}

	for i, t := range terms {
		if _, ok := significant[t]; !ok {
			continue
		}
		if start >= 0 && i-last > luhnMaxGap {
			flush()
			start, hits = -1, 0
		}
		if start < 0 {
			start = i
		}
		last = i
		hits++
	}
	flush()
	return best
}
