// Package textmetrics computes readability statistics for English text.
package textmetrics

import (
	"math"
	"strings"
	"unicode"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/textutil"
)

const (
	longWordMinLen     = 7 // strictly more than six letters
	polysyllableMin    = 3
	smogMinSentences   = 3
	complexityCeiling  = 100.0
	clauseWeight       = 20.0
	phraseWeight       = 15.0
	avgWordLenWeight   = 10.0
	longRatioWeight    = 30.0
	complexRatioWeight = 40.0
)

var (
	clauseIndicators = setOf("that", "which", "who", "whom", "whose", "where", "when", "why", "how")
	phraseIndicators = setOf("in", "on", "at", "by", "for", "with", "from", "to", "of")
)

// Engine computes a MetricsBundle. It holds no state and is safe for concurrent use.
type Engine struct{}

// New returns a metrics engine.
func New() *Engine {
	return &Engine{}
}

// Compute returns the readability statistics of text.
func (e *Engine) Compute(text string) domain.MetricsBundle {
	sentences := textutil.Sentences(text)
	fields := strings.Fields(text)

	bundle := domain.MetricsBundle{
		WordCount:     len(fields),
		SentenceCount: len(sentences),
		CharCount:     len([]rune(text)),
	}

	bundle.VocabComplexity = VocabularyComplexity(text)
	bundle.SyntaxComplexity = SyntaxComplexity(sentences)

	if bundle.WordCount == 0 {
		return bundle
	}
	// words without a recognizable sentence still form one sentence
	if bundle.SentenceCount == 0 {
		bundle.SentenceCount = 1
	}

	var syllables, polysyllables, letters int
	for _, field := range fields {
		word := trimWord(field)
		if word == "" {
			continue
		}
		n := textutil.Syllables(word)
		syllables += n
		if n >= polysyllableMin {
			polysyllables++
		}
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				letters++
			}
		}
	}

	words := float64(bundle.WordCount)
	sents := float64(bundle.SentenceCount)
	wordsPerSentence := words / sents
	syllablesPerWord := float64(syllables) / words

	bundle.FleschReadingEase = 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	bundle.FleschKincaidGrade = 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	bundle.GunningFog = 0.4 * (wordsPerSentence + 100*float64(polysyllables)/words)
	if bundle.SentenceCount >= smogMinSentences {
		bundle.SMOGIndex = 1.043*math.Sqrt(float64(polysyllables)*30/sents) + 3.1291
	}
	bundle.AutomatedReadability = 4.71*float64(letters)/words + 0.5*wordsPerSentence - 21.43

	return bundle
}

// VocabularyComplexity scores word length and rarity on a 0-100 scale.
// A word is complex when it is long or occurs exactly once in text.
func VocabularyComplexity(text string) float64 {
	words := textutil.Words(text)
	if len(words) == 0 {
		return 0
	}

	freq := make(map[string]int, len(words))
	totalLen := 0
	for _, w := range words {
		freq[w]++
		totalLen += len(w)
	}

	var long, complex int
	for _, w := range words {
		isLong := len(w) >= longWordMinLen
		if isLong {
			long++
		}
		if isLong || freq[w] == 1 {
			complex++
		}
	}

	n := float64(len(words))
	score := float64(totalLen)/n*avgWordLenWeight +
		float64(long)/n*longRatioWeight +
		float64(complex)/n*complexRatioWeight
	return math.Min(score, complexityCeiling)
}

// SyntaxComplexity scores clause and prepositional-phrase density per sentence.
func SyntaxComplexity(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}

	var clauses, phrases int
	for _, sentence := range sentences {
		for _, w := range textutil.Words(sentence) {
			if _, ok := clauseIndicators[w]; ok {
				clauses++
			}
			if _, ok := phraseIndicators[w]; ok {
				phrases++
			}
		}
	}

	n := float64(len(sentences))
	score := float64(clauses)/n*clauseWeight + float64(phrases)/n*phraseWeight
	return math.Min(score, complexityCeiling)
}

func trimWord(field string) string {
	return strings.TrimFunc(field, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func setOf(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
