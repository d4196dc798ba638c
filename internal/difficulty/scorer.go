// Package difficulty turns readability statistics into a proficiency level and exam tier.
package difficulty

import (
	"math"
	"strings"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/textmetrics"
)

// MinTextLength is the shortest trimmed text that gets a computed score.
const MinTextLength = 100

const (
	weightFlesch = 0.25
	weightGrade  = 0.20
	weightFog    = 0.20
	weightVocab  = 0.20
	weightSyntax = 0.15

	gradeScale = 5.0
	fogScale   = 4.0
	maxScore   = 100.0
)

type threshold[T any] struct {
	below float64
	value T
}

var levelTable = []threshold[domain.Level]{
	{30, domain.LevelBeginner},
	{50, domain.LevelIntermediate},
	{70, domain.LevelAdvanced},
}

var examTable = []threshold[string]{
	{30, "CET-4"},
	{40, "CET-6"},
	{50, "IELTS-6.0 / TOEFL-80"},
	{60, "IELTS-6.5 / TOEFL-90"},
	{70, "IELTS-7.0"},
}

const topExam = "TOEFL-100+"

// MetricsEngine is the subset of textmetrics.Engine the scorer needs.
type MetricsEngine interface {
	Compute(text string) domain.MetricsBundle
}

// Scorer produces DifficultyResults. It is stateless and safe for concurrent use.
type Scorer struct {
	metrics MetricsEngine
}

// NewScorer wires a metrics engine; nil selects the default one.
func NewScorer(metrics MetricsEngine) *Scorer {
	if metrics == nil {
		metrics = textmetrics.New()
	}
	return &Scorer{metrics: metrics}
}

// Analyze scores text. Short or empty input returns the Unknown result.
func (s *Scorer) Analyze(text string) domain.DifficultyResult {
	if len([]rune(strings.TrimSpace(text))) < MinTextLength {
		return Unknown()
	}

	m := s.metrics.Compute(text)
	score := ComprehensiveScore(m)

	avgSentence := 0.0
	if m.SentenceCount > 0 {
		avgSentence = float64(m.WordCount) / float64(m.SentenceCount)
	}

	return domain.DifficultyResult{
		Level:           LevelForScore(score),
		Score:           round2(score),
		RecommendedExam: ExamForScore(score),
		Details: &domain.DifficultyDetails{
			MetricsBundle:     roundBundle(m),
			AvgSentenceLength: round2(avgSentence),
		},
	}
}

// Unknown is the result for text that cannot be scored.
func Unknown() domain.DifficultyResult {
	return domain.DifficultyResult{
		Level:           domain.LevelUnknown,
		Score:           0,
		RecommendedExam: domain.ExamUnknown,
	}
}

// ComprehensiveScore combines the metrics into a 0-100 score.
func ComprehensiveScore(m domain.MetricsBundle) float64 {
	flesch := math.Max(0, maxScore-m.FleschReadingEase)
	grade := math.Min(m.FleschKincaidGrade*gradeScale, maxScore)
	fog := math.Min(m.GunningFog*fogScale, maxScore)

	score := flesch*weightFlesch +
		grade*weightGrade +
		fog*weightFog +
		m.VocabComplexity*weightVocab +
		m.SyntaxComplexity*weightSyntax

	return math.Min(math.Max(score, 0), maxScore)
}

// LevelForScore maps a score to its level using fixed thresholds.
func LevelForScore(score float64) domain.Level {
	for _, t := range levelTable {
		if score < t.below {
			return t.value
		}
	}
	return domain.LevelExpert
}

// ExamForScore maps a score to the recommended exam tier.
func ExamForScore(score float64) string {
	for _, t := range examTable {
		if score < t.below {
			return t.value
		}
	}
	return topExam
}

// LevelForExam maps an exam label to the level used by recommendation queries.
func LevelForExam(exam string) domain.Level {
	switch {
	case strings.Contains(exam, "CET-4"):
		return domain.LevelBeginner
	case strings.Contains(exam, "CET-6"),
		strings.Contains(exam, "IELTS-6.0"),
		strings.Contains(exam, "TOEFL-80"):
		return domain.LevelIntermediate
	case strings.Contains(exam, "IELTS-6.5"),
		strings.Contains(exam, "TOEFL-90"),
		strings.Contains(exam, "IELTS-7.0"),
		strings.Contains(exam, "TOEFL-100"):
		return domain.LevelAdvanced
	default:
		return domain.LevelExpert
	}
}

func roundBundle(m domain.MetricsBundle) domain.MetricsBundle {
	m.FleschReadingEase = round2(m.FleschReadingEase)
	m.FleschKincaidGrade = round2(m.FleschKincaidGrade)
	m.GunningFog = round2(m.GunningFog)
	m.SMOGIndex = round2(m.SMOGIndex)
	m.AutomatedReadability = round2(m.AutomatedReadability)
	m.VocabComplexity = round2(m.VocabComplexity)
	m.SyntaxComplexity = round2(m.SyntaxComplexity)
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
