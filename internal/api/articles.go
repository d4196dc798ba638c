package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/difficulty"
	"ArticleIntel/internal/domain"
)

const (
	defaultArticleLimit   = 20
	defaultRecommendLimit = 10
	maxLimit              = 100
)

// Health reports liveness and, when the store supports it, database reachability.
func (h *Handler) Health(c *gin.Context) {
	if pinger, ok := h.store.(Pinger); ok {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			h.log().Warn("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, Response{
				Success:   false,
				Data:      gin.H{"status": "unhealthy"},
				Error:     "article store unavailable",
				RequestID: requestID(c),
			})
			return
		}
	}
	h.success(c, Response{Data: gin.H{"status": "healthy"}})
}

// ListArticles handles GET /api/articles.
func (h *Handler) ListArticles(c *gin.Context) {
	limit, err := parseLimit(c, defaultArticleLimit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	filter, err := parseFilter(c.Query("category"), c.Query("difficulty"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	records, err := h.store.Query(c.Request.Context(), filter, limit)
	if err != nil {
		h.respondError(c, fmt.Errorf("query articles: %w", err))
		return
	}
	h.success(c, Response{Data: nonNil(records), Total: intPtr(len(records))})
}

// GetArticle handles GET /api/articles/:id.
func (h *Handler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, http.StatusBadRequest, "invalid article id")
		return
	}

	record, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.success(c, Response{Data: record})
}

// SearchArticles handles GET /api/articles/search.
func (h *Handler) SearchArticles(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		h.fail(c, http.StatusBadRequest, "search keyword is required")
		return
	}
	limit, err := parseLimit(c, defaultArticleLimit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	records, err := h.store.Search(c.Request.Context(), keyword, limit)
	if err != nil {
		h.respondError(c, fmt.Errorf("search articles: %w", err))
		return
	}
	h.success(c, Response{Data: nonNil(records), Total: intPtr(len(records)), Keyword: keyword})
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, fmt.Errorf("list categories: %w", err))
		return
	}
	h.success(c, Response{Data: nonNil(categories)})
}

// DifficultyStats handles GET /api/difficulty-stats.
func (h *Handler) DifficultyStats(c *gin.Context) {
	histogram, err := h.store.DifficultyHistogram(c.Request.Context())
	if err != nil {
		h.respondError(c, fmt.Errorf("difficulty histogram: %w", err))
		return
	}
	h.success(c, Response{Data: nonNil(histogram)})
}

// Recommend handles GET /api/recommend. An exam_level overrides difficulty.
func (h *Handler) Recommend(c *gin.Context) {
	limit, err := parseLimit(c, defaultRecommendLimit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	examLevel := strings.TrimSpace(c.Query("exam_level"))
	level := c.Query("difficulty")
	if examLevel != "" {
		level = string(difficulty.LevelForExam(examLevel))
	}
	filter, err := parseFilter(c.Query("category"), level)
	if err != nil {
		h.respondError(c, err)
		return
	}

	records, err := h.store.Query(c.Request.Context(), filter, limit)
	if err != nil {
		h.respondError(c, fmt.Errorf("query recommendations: %w", err))
		return
	}
	out := make([]ArticleSummary, 0, len(records))
	for _, r := range records {
		out = append(out, toArticleSummary(r))
	}
	h.success(c, Response{
		Data:  out,
		Total: intPtr(len(out)),
		Criteria: RecommendationCriteria{
			Difficulty: filter.Difficulty,
			Category:   filter.Category,
			ExamLevel:  examLevel,
		},
	})
}

// Crawl handles POST /api/crawl and runs one ingestion cycle synchronously.
func (h *Handler) Crawl(c *gin.Context) {
	if h.crawler == nil {
		h.fail(c, http.StatusServiceUnavailable, "crawler is not configured")
		return
	}

	var req CrawlRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MaxArticles < 0 {
		h.fail(c, http.StatusBadRequest, "max_articles must not be negative")
		return
	}
	opts := domain.FetchOptions{MaxPerFeed: min(req.MaxArticles, maxLimit)}
	if source := strings.TrimSpace(req.Source); source != "" && !strings.EqualFold(source, "all") {
		opts.Sites = []string{source}
	}

	report, err := h.crawler.Run(c.Request.Context(), opts)
	if err != nil {
		h.respondError(c, fmt.Errorf("run crawl: %w", err))
		return
	}
	h.success(c, Response{
		Data:    report,
		Message: fmt.Sprintf("crawl finished: %d crawled, %d saved", report.Crawled, report.Saved),
	})
}

func parseLimit(c *gin.Context, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apperr.Input(fmt.Sprintf("invalid limit %q", raw))
	}
	return min(limit, maxLimit), nil
}

func parseFilter(category, level string) (domain.ArticleFilter, error) {
	var filter domain.ArticleFilter
	if category = strings.TrimSpace(category); category != "" {
		resolved, ok := domain.ParseCategory(category)
		if !ok {
			return filter, apperr.Input(fmt.Sprintf("unknown category %q", category))
		}
		filter.Category = resolved
	}
	if level = strings.TrimSpace(level); level != "" {
		resolved, ok := domain.ParseLevel(level)
		if !ok {
			return filter, apperr.Input(fmt.Sprintf("unknown difficulty %q", level))
		}
		filter.Difficulty = resolved
	}
	return filter, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
