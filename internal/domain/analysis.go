package domain

import "strings"

// Level is a reading proficiency level.
type Level string

const (
	LevelUnknown      Level = "Unknown"
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
)

// ExamUnknown is reported together with LevelUnknown.
const ExamUnknown = "Unknown"

// MetricsBundle holds raw readability statistics for a text.
type MetricsBundle struct {
	WordCount            int     `json:"word_count"`
	SentenceCount        int     `json:"sentence_count"`
	CharCount            int     `json:"char_count"`
	FleschReadingEase    float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade   float64 `json:"flesch_kincaid_grade"`
	GunningFog           float64 `json:"gunning_fog"`
	SMOGIndex            float64 `json:"smog_index"`
	AutomatedReadability float64 `json:"automated_readability"`
	VocabComplexity      float64 `json:"vocab_complexity"`
	SyntaxComplexity     float64 `json:"syntax_complexity"`
}

// DifficultyDetails is the presentation form of the metrics.
type DifficultyDetails struct {
	MetricsBundle
	AvgSentenceLength float64 `json:"avg_sentence_length"`
}

// DifficultyResult is the output of the difficulty scorer.
type DifficultyResult struct {
	Level           Level              `json:"difficulty_level"`
	Score           float64            `json:"difficulty_score"`
	RecommendedExam string             `json:"recommended_exam"`
	Details         *DifficultyDetails `json:"details"`
}

// SummaryResult is the output of the summary engine.
type SummaryResult struct {
	Summary        string  `json:"summary"`
	Method         string  `json:"method"`
	Strategy       string  `json:"strategy"`
	SentencesCount int     `json:"sentences_count"`
	QualityScore   float64 `json:"quality_score"`
}

// ClassificationResult is the output of classification plus tagging.
type ClassificationResult struct {
	Category Category `json:"category"`
	Tags     []string `json:"tags"`
}

var levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert, LevelUnknown}

// ParseLevel resolves a level name case-insensitively.
func ParseLevel(name string) (Level, bool) {
	name = strings.TrimSpace(name)
	for _, l := range levels {
		if strings.EqualFold(string(l), name) {
			return l, true
		}
	}
	return "", false
}
