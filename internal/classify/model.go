package classify

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/textutil"
)

const (
	// MinTrainingSamples is the smallest labelled set Train accepts.
	MinTrainingSamples = 10
	// MaxFeatures bounds the vocabulary kept by the TF-IDF vectorizer.
	MaxFeatures = 1000

	smoothingAlpha = 1.0
)

var (
	// ErrInsufficientSamples is returned by Train for fewer than MinTrainingSamples usable samples.
	ErrInsufficientSamples = errors.New("not enough labelled samples to train")
	// ErrEmptyVocabulary is returned by Train when no sample yields a feature.
	ErrEmptyVocabulary = errors.New("training samples produced an empty vocabulary")

	tokenExpr = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
)

// Sample is one labelled training document.
type Sample struct {
	Title    string
	Content  string
	Category domain.Category
}

// Model is a trained TF-IDF + multinomial naive Bayes classifier. It is never
// mutated after Train or LoadModel returns, so it can be shared freely.
type Model struct {
	Vocabulary     map[string]int    `json:"vocabulary"`
	IDF            []float64         `json:"idf"`
	Classes        []domain.Category `json:"classes"`
	ClassLogPrior  []float64         `json:"class_log_prior"`
	FeatureLogProb [][]float64       `json:"feature_log_prob"`
	Samples        int               `json:"samples"`
	TrainedAt      time.Time         `json:"trained_at"`
}

// Train fits a model on samples. Samples without content or category are ignored.
func Train(samples []Sample) (*Model, error) {
	var (
		docs   [][]string
		labels []domain.Category
	)
	for _, s := range samples {
		if strings.TrimSpace(s.Title+s.Content) == "" || s.Category == "" {
			continue
		}
		docs = append(docs, tokenize(s.Title+" "+s.Content))
		labels = append(labels, s.Category)
	}
	if len(docs) < MinTrainingSamples {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientSamples, len(docs), MinTrainingSamples)
	}

	vocab := selectVocabulary(docs)
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}

	n := float64(len(docs))
	df := make([]float64, len(vocab))
	for _, doc := range docs {
		seen := map[int]bool{}
		for _, tok := range doc {
			if col, ok := vocab[tok]; ok && !seen[col] {
				seen[col] = true
				df[col]++
			}
		}
	}
	idf := make([]float64, len(vocab))
	for i := range idf {
		idf[i] = math.Log((1+n)/(1+df[i])) + 1
	}

	m := &Model{Vocabulary: vocab, IDF: idf, Samples: len(docs), TrainedAt: time.Now().UTC()}

	classIndex := map[domain.Category]int{}
	for _, label := range labels {
		if _, ok := classIndex[label]; !ok {
			classIndex[label] = 0
			m.Classes = append(m.Classes, label)
		}
	}
	slices.Sort(m.Classes)
	for i, class := range m.Classes {
		classIndex[class] = i
	}

	counts := make([]float64, len(m.Classes))
	features := make([][]float64, len(m.Classes))
	for i := range features {
		features[i] = make([]float64, len(vocab))
	}
	for i, doc := range docs {
		c := classIndex[labels[i]]
		counts[c]++
		for col, weight := range m.vectorize(doc) {
			features[c][col] += weight
		}
	}

	m.ClassLogPrior = make([]float64, len(m.Classes))
	m.FeatureLogProb = make([][]float64, len(m.Classes))
	for c := range m.Classes {
		m.ClassLogPrior[c] = math.Log(counts[c] / n)
		total := 0.0
		for _, v := range features[c] {
			total += v
		}
		denom := total + smoothingAlpha*float64(len(vocab))
		m.FeatureLogProb[c] = make([]float64, len(vocab))
		for col, v := range features[c] {
			m.FeatureLogProb[c][col] = math.Log((v + smoothingAlpha) / denom)
		}
	}
	return m, nil
}

// Predict returns the most likely class of text.
func (m *Model) Predict(text string) (domain.Category, error) {
	if m == nil || len(m.Classes) == 0 {
		return "", errors.New("model is not trained")
	}
	if err := m.validate(); err != nil {
		return "", fmt.Errorf("model is malformed: %w", err)
	}

	vec := m.vectorize(tokenize(text))
	best, bestScore := 0, math.Inf(-1)
	for c := range m.Classes {
		score := m.ClassLogPrior[c]
		for col, weight := range vec {
			score += weight * m.FeatureLogProb[c][col]
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return m.Classes[best], nil
}

// vectorize returns the l2-normalized TF-IDF weights of the known tokens of doc.
func (m *Model) vectorize(doc []string) map[int]float64 {
	vec := map[int]float64{}
	for _, tok := range doc {
		if col, ok := m.Vocabulary[tok]; ok && col >= 0 && col < len(m.IDF) {
			vec[col]++
		}
	}
	norm := 0.0
	for col, tf := range vec {
		w := tf * m.IDF[col]
		vec[col] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for col := range vec {
		vec[col] /= norm
	}
	return vec
}

// Save writes the model as JSON to path.
func (m *Model) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// LoadModel reads a model written by Save.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &m, nil
}

// validate checks that every index the vectorizer and Predict use is in range.
func (m *Model) validate() error {
	if len(m.Classes) == 0 {
		return errors.New("model has no classes")
	}
	if len(m.IDF) != len(m.Vocabulary) {
		return fmt.Errorf("vocabulary has %d terms but idf has %d", len(m.Vocabulary), len(m.IDF))
	}
	for term, col := range m.Vocabulary {
		if col < 0 || col >= len(m.IDF) {
			return fmt.Errorf("vocabulary term %q has index %d out of range", term, col)
		}
	}
	if len(m.ClassLogPrior) != len(m.Classes) || len(m.FeatureLogProb) != len(m.Classes) {
		return fmt.Errorf("model has %d classes but %d priors and %d feature rows",
			len(m.Classes), len(m.ClassLogPrior), len(m.FeatureLogProb))
	}
	for c, row := range m.FeatureLogProb {
		if len(row) != len(m.IDF) {
			return fmt.Errorf("feature row %d has %d columns, want %d", c, len(row), len(m.IDF))
		}
	}
	return nil
}

func tokenize(text string) []string {
	tokens := tokenExpr.FindAllString(strings.ToLower(text), -1)
	out := tokens[:0]
	for _, tok := range tokens {
		if !textutil.IsStopword(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// selectVocabulary keeps the MaxFeatures most frequent terms, ties broken alphabetically,
// and numbers them in alphabetical order.
func selectVocabulary(docs [][]string) map[string]int {
	freq := map[string]int{}
	for _, doc := range docs {
		for _, tok := range doc {
			freq[tok]++
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	slices.SortFunc(terms, func(a, b string) int {
		if c := cmp.Compare(freq[b], freq[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(terms) > MaxFeatures {
		terms = terms[:MaxFeatures]
	}
	slices.Sort(terms)

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}
