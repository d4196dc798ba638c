package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/classify"
	"ArticleIntel/internal/domain"
)

const internalErrorMessage = "internal server error"

// Response is the envelope of every API reply.
type Response struct {
	Success     bool   `json:"success"`
	Data        any    `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
	Total       *int   `json:"total,omitempty"`
	Keyword     string `json:"keyword,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Message     string `json:"message,omitempty"`
	Criteria    any    `json:"recommendation_criteria,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// ArticleSummary is the listing shape used by recommendations (no body, no timestamps).
type ArticleSummary struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	Summary         string          `json:"summary"`
	URL             string          `json:"url"`
	Source          string          `json:"source"`
	PublishDate     *time.Time      `json:"publish_date"`
	DifficultyLevel domain.Level    `json:"difficulty_level"`
	DifficultyScore float64         `json:"difficulty_score"`
	Category        domain.Category `json:"category"`
	Tags            []string        `json:"tags"`
	WordCount       int             `json:"word_count"`
}

// RecommendationCriteria echoes the resolved recommendation filter.
type RecommendationCriteria struct {
	Difficulty domain.Level    `json:"difficulty,omitempty"`
	Category   domain.Category `json:"category,omitempty"`
	ExamLevel  string          `json:"exam_level,omitempty"`
}

// DifficultyRequest is the body of POST /api/analyze-difficulty.
type DifficultyRequest struct {
	Text string `json:"text"`
}

// SummaryRequest is the body of POST /api/generate-summary.
type SummaryRequest struct {
	Text           string `json:"text"`
	Method         string `json:"method"`
	SentencesCount int    `json:"sentences_count"`
}

// CrawlRequest is the optional body of POST /api/crawl. Source "all" or empty crawls every site.
type CrawlRequest struct {
	MaxArticles int    `json:"max_articles"`
	Source      string `json:"source"`
}

// ClassifyRequest is the body of POST /api/classify.
type ClassifyRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// ClassifyResponse carries the category, tags and the signal votes behind the category.
type ClassifyResponse struct {
	Category domain.Category `json:"category"`
	Tags     []string        `json:"tags"`
	Votes    []classify.Vote `json:"votes"`
}

// KeywordsRequest is the body of POST /api/classifier/categories/:category/keywords.
type KeywordsRequest struct {
	Keywords []string `json:"keywords" binding:"required,min=1"`
}

// KeywordsResponse lists the keywords of one category.
type KeywordsResponse struct {
	Category domain.Category `json:"category"`
	Keywords []string        `json:"keywords"`
}

func toArticleSummary(r domain.ArticleRecord) ArticleSummary {
	return ArticleSummary{
		ID:              r.ID,
		Title:           r.Title,
		Author:          r.Author,
		Summary:         r.Summary,
		URL:             r.URL,
		Source:          r.Source,
		PublishDate:     r.PublishDate,
		DifficultyLevel: r.DifficultyLevel,
		DifficultyScore: r.DifficultyScore,
		Category:        r.Category,
		Tags:            r.Tags,
		WordCount:       r.WordCount,
	}
}

func (h *Handler) success(c *gin.Context, resp Response) {
	resp.Success = true
	resp.RequestID = requestID(c)
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message, RequestID: requestID(c)})
}

// respondError maps the error taxonomy onto HTTP status codes. Internal
// failures are logged and answered with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsInput(err):
		h.fail(c, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		h.fail(c, http.StatusNotFound, err.Error())
	case apperr.IsConflict(err):
		h.fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, classify.ErrInsufficientSamples), errors.Is(err, classify.ErrEmptyVocabulary):
		h.fail(c, http.StatusBadRequest, err.Error())
	default:
		h.log().Error("request failed", "path", c.FullPath(), "request_id", requestID(c), "error", err)
		h.fail(c, http.StatusInternalServerError, internalErrorMessage)
	}
}

func intPtr(v int) *int {
	return &v
}
