package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/classify"
	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/textutil"
)

// DifficultyEngine scores reading difficulty.
type DifficultyEngine interface {
	Analyze(text string) domain.DifficultyResult
}

// SummaryEngine builds extractive summaries.
type SummaryEngine interface {
	Summarize(text, method string, n int) domain.SummaryResult
}

// CategoryEngine assigns a catalog category.
type CategoryEngine interface {
	Classify(in classify.Input) domain.Category
}

// TagEngine derives descriptive tags.
type TagEngine interface {
	Extract(title, content string) []string
}

// AnalyzerDeps wires the analysis engines.
type AnalyzerDeps struct {
	Difficulty DifficultyEngine
	Summary    SummaryEngine
	Classifier CategoryEngine
	Tags       TagEngine
	Logger     *slog.Logger
}

// Analyzer runs every engine over one article and merges the results into a record.
type Analyzer struct {
	difficulty DifficultyEngine
	summary    SummaryEngine
	classifier CategoryEngine
	tags       TagEngine
	logger     *slog.Logger
}

// NewAnalyzer constructs the per-article analysis step.
func NewAnalyzer(deps AnalyzerDeps) *Analyzer {
	return &Analyzer{
		difficulty: deps.Difficulty,
		summary:    deps.Summary,
		classifier: deps.Classifier,
		tags:       deps.Tags,
		logger:     deps.Logger,
	}
}

// Analyze builds the ArticleRecord of raw. Empty content is an input error;
// a panic inside any engine is returned as an engine error.
func (a *Analyzer) Analyze(raw domain.RawArticle) (record domain.ArticleRecord, err error) {
	if strings.TrimSpace(raw.Content) == "" {
		return domain.ArticleRecord{}, apperr.Input("article content is empty")
	}

	stage := "difficulty"
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Engine(fmt.Sprintf("%s engine failed", stage), fmt.Errorf("panic: %v", r))
		}
	}()

	diff := a.difficulty.Analyze(raw.Content)

	stage = "summary"
	sum := a.summary.Summarize(raw.Content, "", 0)

	stage = "classification"
	category := a.classifier.Classify(classify.Input{
		Title:   raw.Title,
		Content: raw.Content,
		URL:     raw.URL,
		Source:  raw.Source,
	})

	stage = "tags"
	tags := a.tags.Extract(raw.Title, raw.Content)

	a.debug("article analyzed", "url", raw.URL, "level", diff.Level, "category", category, "summary_strategy", sum.Strategy)

	cls := domain.ClassificationResult{Category: category, Tags: tags}
	return domain.NewRecord(raw, diff, sum, cls, textutil.WordCount(raw.Content)), nil
}

func (a *Analyzer) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
