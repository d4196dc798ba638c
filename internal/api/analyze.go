package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/classify"
	"ArticleIntel/internal/difficulty"
	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/infrastructure/cache"
)

const (
	opDifficulty = "difficulty"
	opSummary    = "summary"
	opClassify   = "classify"

	methodAll = "all"
)

// AnalyzeDifficulty handles POST /api/analyze-difficulty.
func (h *Handler) AnalyzeDifficulty(c *gin.Context) {
	var req DifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.fail(c, http.StatusBadRequest, "text is required")
		return
	}

	result := cachedAnalysis(c.Request.Context(), h, opDifficulty, cache.Key(opDifficulty, req.Text),
		func() domain.DifficultyResult { return h.difficulty.Analyze(req.Text) })
	h.success(c, Response{Data: result, Explanation: difficulty.Explain(result)})
}

// GenerateSummary handles POST /api/generate-summary.
func (h *Handler) GenerateSummary(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.fail(c, http.StatusBadRequest, "text is required")
		return
	}

	method := strings.ToLower(strings.TrimSpace(req.Method))
	key := cache.Key(opSummary, req.Text, method, strconv.Itoa(req.SentencesCount))
	if method == methodAll {
		all := cachedAnalysis(c.Request.Context(), h, opSummary, key,
			func() map[string]string { return h.summary.SummarizeAll(req.Text, req.SentencesCount) })
		h.success(c, Response{Data: all})
		return
	}
	result := cachedAnalysis(c.Request.Context(), h, opSummary, key,
		func() domain.SummaryResult { return h.summary.Summarize(req.Text, req.Method, req.SentencesCount) })
	h.success(c, Response{Data: result})
}

// Classify handles POST /api/classify.
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Content) == "" {
		h.fail(c, http.StatusBadRequest, "title or content is required")
		return
	}

	// keyword additions and model swaps bump the version, retiring earlier entries
	version := strconv.FormatUint(h.classifier.Version(), 10)
	key := cache.Key(opClassify, version, req.Title, req.Content, req.URL, req.Source)
	result := cachedAnalysis(c.Request.Context(), h, opClassify, key, func() ClassifyResponse {
		votes := h.classifier.Votes(classify.Input{
			Title:   req.Title,
			Content: req.Content,
			URL:     req.URL,
			Source:  req.Source,
		})
		return ClassifyResponse{
			Category: classify.Combine(votes),
			Tags:     nonNil(h.tags.Extract(req.Title, req.Content)),
			Votes:    votes,
		}
	})
	h.success(c, Response{Data: result})
}

// TrainClassifier handles POST /api/classifier/train.
func (h *Handler) TrainClassifier(c *gin.Context) {
	if h.trainer == nil {
		h.fail(c, http.StatusServiceUnavailable, "classifier training is not configured")
		return
	}

	result, err := h.trainer.Train(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ModelLoaded(result.Samples)
	}
	h.success(c, Response{Data: result, Message: "classifier model trained"})
}

// CategoryKeywords handles GET /api/classifier/categories/:category/keywords.
func (h *Handler) CategoryKeywords(c *gin.Context) {
	category, ok := domain.ParseCategory(c.Param("category"))
	if !ok {
		h.respondError(c, apperr.Input("unknown category "+strconv.Quote(c.Param("category"))))
		return
	}
	h.success(c, Response{Data: KeywordsResponse{
		Category: category,
		Keywords: nonNil(h.classifier.CategoryKeywords(category)),
	}})
}

// AddCategoryKeywords handles POST /api/classifier/categories/:category/keywords.
func (h *Handler) AddCategoryKeywords(c *gin.Context) {
	var req KeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "keywords are required")
		return
	}
	category := domain.Category(c.Param("category"))
	if err := h.classifier.AddCategoryKeywords(category, req.Keywords...); err != nil {
		h.respondError(c, err)
		return
	}

	resolved, _ := domain.ParseCategory(string(category))
	h.success(c, Response{Data: KeywordsResponse{
		Category: resolved,
		Keywords: nonNil(h.classifier.CategoryKeywords(resolved)),
	}})
}

// cachedAnalysis serves compute from the response cache when one is configured.
// Cache failures are logged and fall through to compute.
func cachedAnalysis[T any](ctx context.Context, h *Handler, op, key string, compute func() T) T {
	if h.cache != nil {
		raw, ok, err := h.cache.Get(ctx, key)
		switch {
		case err != nil:
			h.log().Warn("cache read failed", "operation", op, "error", err)
		case ok:
			var cached T
			if err := json.Unmarshal(raw, &cached); err == nil {
				h.served(op, true)
				return cached
			}
		}
	}

	result := compute()
	if h.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := h.cache.Set(ctx, key, raw, h.cacheTTL); err != nil {
				h.log().Warn("cache write failed", "operation", op, "error", err)
			}
		}
	}
	h.served(op, false)
	return result
}

func (h *Handler) served(op string, cached bool) {
	if h.metrics != nil {
		h.metrics.AnalysisServed(op, cached)
	}
}
