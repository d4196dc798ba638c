package summary

import (
	"cmp"
	"errors"
	"regexp"
	"slices"
	"strings"

	"ArticleIntel/internal/textutil"
)

var (
	unsafeCharsExpr = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:\-()]`)

	errNoSentences = errors.New("document has no sentences")
	errNoTerms     = errors.New("document has no content words")
)

// Clean collapses whitespace and strips characters outside the word set and basic punctuation.
func Clean(text string) string {
	text = textutil.CollapseSpace(text)
	text = unsafeCharsExpr.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// document is the tokenized form shared by the ranking algorithms.
type document struct {
	sentences []string
	terms     [][]string // content words per sentence, in order
}

func newDocument(text string) *document {
	sentences := textutil.Sentences(text)
	terms := make([][]string, len(sentences))
	for i, s := range sentences {
		terms[i] = textutil.ContentWords(s)
	}
	return &document{sentences: sentences, terms: terms}
}

func (d *document) len() int {
	return len(d.sentences)
}

// vocabulary indexes every distinct term in order of first appearance.
func (d *document) vocabulary() map[string]int {
	vocab := map[string]int{}
	for _, ts := range d.terms {
		for _, t := range ts {
			if _, ok := vocab[t]; !ok {
				vocab[t] = len(vocab)
			}
		}
	}
	return vocab
}

func (d *document) validate() error {
	if d.len() == 0 {
		return errNoSentences
	}
	for _, ts := range d.terms {
		if len(ts) > 0 {
			return nil
		}
	}
	return errNoTerms
}

// pick returns the n best-rated sentences in document order.
func pick(ratings []float64, n int) []int {
	idx := make([]int, len(ratings))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(ratings[b], ratings[a])
	})
	if n < len(idx) {
		idx = idx[:n]
	}
	slices.Sort(idx)
	return idx
}
