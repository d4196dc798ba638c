// Package summary produces extractive summaries with an ordered fallback chain.
package summary

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/textutil"
)

// Method selectors and the strategy names reported in SummaryResult.Strategy.
const (
	MethodTextRank = "textrank"
	MethodLSA      = "lsa"
	MethodLuhn     = "luhn"
	MethodLexRank  = "lexrank"
	MethodKeyword  = "keyword"

	StrategyPositional = "positional"
	StrategyVerbatim   = "verbatim"
	StrategyTooShort   = "too_short"
)

// TooShort is returned in place of a summary when the input is under MinTextLength.
const TooShort = "Content too short to generate a summary."

const (
	// MinTextLength is the shortest trimmed text that is summarized.
	MinTextLength = 200
	// DefaultSentences is used when a caller asks for zero or fewer sentences.
	DefaultSentences = 3

	minQualityChars   = 50
	compressionWeight = 0.6
	coverageWeight    = 0.4
)

var errEmptySummary = errors.New("strategy produced an empty summary")

type algorithm interface {
	Name() string
	Select(doc *document, n int) ([]int, error)
}

type strategy struct {
	name string
	run  func(text string, n int) (string, error)
}

// Options configure the engine defaults.
type Options struct {
	DefaultMethod  string
	SentencesCount int
}

// Engine runs the summarization chain. It is safe for concurrent use.
type Engine struct {
	algorithms map[string]algorithm
	order      []string
	opts       Options
	logger     *slog.Logger
}

// New builds an engine with the four ranking algorithms registered.
func New(opts Options, logger *slog.Logger) *Engine {
	if opts.DefaultMethod == "" {
		opts.DefaultMethod = MethodTextRank
	}
	if opts.SentencesCount <= 0 {
		opts.SentencesCount = DefaultSentences
	}
	if logger != nil {
		logger = logger.With("component", "summary")
	}

	e := &Engine{algorithms: map[string]algorithm{}, opts: opts, logger: logger}
	for _, alg := range []algorithm{textRank{}, lsa{}, luhn{}, lexRank{}} {
		e.algorithms[alg.Name()] = alg
		e.order = append(e.order, alg.Name())
	}
	return e
}

// Methods lists the ranking algorithms in canonical order.
func (e *Engine) Methods() []string {
	return append([]string(nil), e.order...)
}

// Summarize returns a summary of text built by method with n sentences.
// An empty method or non-positive n selects the configured defaults.
func (e *Engine) Summarize(text, method string, n int) domain.SummaryResult {
	if method == "" {
		method = e.opts.DefaultMethod
	}
	if n <= 0 {
		n = e.opts.SentencesCount
	}

	result := domain.SummaryResult{Method: method, SentencesCount: n}

	cleaned := ""
	if len([]rune(strings.TrimSpace(text))) >= MinTextLength {
		cleaned = Clean(text)
	}
	if cleaned == "" {
		result.Summary = TooShort
		result.Strategy = StrategyTooShort
		return result
	}

	if len(textutil.Sentences(cleaned)) <= n {
		result.Summary = cleaned
		result.Strategy = StrategyVerbatim
		result.QualityScore = Quality(text, cleaned)
		return result
	}

	for _, s := range e.chain(method) {
		summary, err := runStrategy(s, cleaned, n)
		if err != nil {
			e.warn("summary strategy failed", "strategy", s.name, "method", method, "error", err)
			continue
		}
		result.Summary = summary
		result.Strategy = s.name
		result.QualityScore = Quality(text, summary)
		return result
	}

	// positional cannot fail on non-empty text; keep the result valid regardless
	result.Summary = cleaned
	result.Strategy = StrategyVerbatim
	result.QualityScore = Quality(text, cleaned)
	return result
}

// SummarizeAll runs every ranking algorithm and the keyword strategy over text.
func (e *Engine) SummarizeAll(text string, n int) map[string]string {
	out := make(map[string]string, len(e.order)+1)
	for _, method := range append(e.Methods(), MethodKeyword) {
		out[method] = e.Summarize(text, method, n).Summary
	}
	return out
}

// chain lists the strategies tried for method. Unknown methods start at keyword scoring.
func (e *Engine) chain(method string) []strategy {
	var out []strategy
	if alg, ok := e.algorithms[method]; ok {
		out = append(out, strategy{name: alg.Name(), run: algorithmStrategy(alg)})
	}
	return append(out,
		strategy{name: MethodKeyword, run: keywordSummary},
		strategy{name: StrategyPositional, run: positionalSummary},
	)
}

func algorithmStrategy(alg algorithm) func(string, int) (string, error) {
	return func(text string, n int) (string, error) {
		doc := newDocument(text)
		picked, err := alg.Select(doc, n)
		if err != nil {
			return "", err
		}
		return joinSentences(doc.sentences, picked), nil
	}
}

func runStrategy(s strategy, text string, n int) (summary string, err error) {
	defer func() {
		if r := recover(); r != nil {
			summary, err = "", fmt.Errorf("%s panicked: %v", s.name, r)
		}
	}()

	summary, err = s.run(text, n)
	if err == nil && strings.TrimSpace(summary) == "" {
		err = errEmptySummary
	}
	return summary, err
}

// Quality rates a summary against its original on [0,1] from compression and content-word coverage.
func Quality(original, summary string) float64 {
	if len([]rune(strings.TrimSpace(summary))) < minQualityChars {
		return 0
	}
	originalWords := textutil.WordCount(original)
	if originalWords == 0 {
		return 0
	}

	compression := float64(textutil.WordCount(summary)) / float64(originalWords)

	originalTerms := termSet(textutil.ContentWords(original))
	coverage := 0.0
	if len(originalTerms) > 0 {
		shared := 0
		for t := range termSet(textutil.ContentWords(summary)) {
			if _, ok := originalTerms[t]; ok {
				shared++
			}
		}
		coverage = float64(shared) / float64(len(originalTerms))
	}

	score := (1-compression)*compressionWeight + coverage*coverageWeight
	return min(max(score, 0), 1)
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Warn(msg, args...)
}
