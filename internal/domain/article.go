package domain

import "time"

// RawArticle is the immutable input to the analysis pipeline.
type RawArticle struct {
	Title       string     `json:"title"`
	Author      string     `json:"author,omitempty"`
	Content     string     `json:"content"`
	URL         string     `json:"url"`
	Source      string     `json:"source,omitempty"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
}

// ArticleRecord is the unit persisted by the article store.
type ArticleRecord struct {
	ID              int64      `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Author          string     `json:"author" db:"author"`
	Content         string     `json:"content,omitempty" db:"content"`
	Summary         string     `json:"summary" db:"summary"`
	URL             string     `json:"url" db:"url"`
	Source          string     `json:"source" db:"source"`
	PublishDate     *time.Time `json:"publish_date" db:"publish_date"`
	DifficultyLevel Level      `json:"difficulty_level" db:"difficulty_level"`
	DifficultyScore float64    `json:"difficulty_score" db:"difficulty_score"`
	RecommendedExam string     `json:"recommended_exam" db:"recommended_exam"`
	Category        Category   `json:"category" db:"category"`
	Tags            []string   `json:"tags" db:"-"`
	WordCount       int        `json:"word_count" db:"word_count"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// NewRecord merges the raw article with every engine output.
func NewRecord(raw RawArticle, diff DifficultyResult, sum SummaryResult, cls ClassificationResult, wordCount int) ArticleRecord {
	return ArticleRecord{
		Title:           raw.Title,
		Author:          raw.Author,
		Content:         raw.Content,
		Summary:         sum.Summary,
		URL:             raw.URL,
		Source:          raw.Source,
		PublishDate:     raw.PublishDate,
		DifficultyLevel: diff.Level,
		DifficultyScore: diff.Score,
		RecommendedExam: diff.RecommendedExam,
		Category:        cls.Category,
		Tags:            cls.Tags,
		WordCount:       wordCount,
	}
}

// ArticleFilter narrows store queries.
type ArticleFilter struct {
	Category   Category
	Difficulty Level
}

// LevelCount is one bucket of the difficulty histogram.
type LevelCount struct {
	Level Level `json:"difficulty_level" db:"difficulty_level"`
	Count int   `json:"count" db:"count"`
}
