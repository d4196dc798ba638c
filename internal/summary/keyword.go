package summary

import (
	"errors"
	"strings"

	"ArticleIntel/internal/textutil"
)

const (
	weightFreq     = 0.5
	weightPosition = 0.3
	weightLength   = 0.2
)

var errNoScorable = errors.New("no sentence has content words")

// keywordSummary picks the n sentences with the best frequency/position/length blend,
// restored to document order.
func keywordSummary(text string, n int) (string, error) {
	doc := newDocument(text)
	if doc.len() <= n {
		return text, nil
	}

	freq := map[string]int{}
	for _, ts := range doc.terms {
		for _, t := range ts {
			freq[t]++
		}
	}

	ratings := make([]float64, doc.len())
	scorable := 0
	for i, ts := range doc.terms {
		if len(ts) == 0 {
			ratings[i] = -1
			continue
		}
		scorable++
		sum := 0
		for _, t := range ts {
			sum += freq[t]
		}
		freqScore := float64(sum) / float64(len(ts))
		ratings[i] = freqScore*weightFreq +
			positionScore(i, doc.len())*weightPosition +
			lengthScore(doc.sentences[i])*weightLength
	}
	if scorable == 0 {
		return "", errNoScorable
	}

	picked := pick(ratings, min(n, scorable))
	return joinSentences(doc.sentences, picked), nil
}

// positionScore favors the opening and closing sentences.
func positionScore(pos, total int) float64 {
	p, t := float64(pos), float64(total)
	switch {
	case p < t*0.1 || p > t*0.9:
		return 1.0
	case p < t*0.2 || p > t*0.8:
		return 0.8
	default:
		return 0.5
	}
}

// lengthScore favors medium-length sentences.
func lengthScore(sentence string) float64 {
	words := textutil.WordCount(sentence)
	switch {
	case words >= 10 && words <= 25:
		return 1.0
	case words >= 5 && words <= 35:
		return 0.8
	default:
		return 0.5
	}
}

// positionalSummary keeps the first sentence, the next n-2 and the last one.
func positionalSummary(text string, n int) (string, error) {
	sentences := textutil.Sentences(text)
	if len(sentences) <= n {
		return text, nil
	}

	selected := []string{sentences[0]}
	if n >= 2 {
		if n > 2 {
			selected = append(selected, sentences[1:n-1]...)
		}
		selected = append(selected, sentences[len(sentences)-1])
	}
	return strings.Join(selected, " "), nil
}

func joinSentences(sentences []string, idx []int) string {
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		parts = append(parts, sentences[i])
	}
	return strings.Join(parts, " ")
}
