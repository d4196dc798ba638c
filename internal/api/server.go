// Package api exposes the article store and the analysis engines over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ArticleIntel/internal/classify"
	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/metrics"
	"ArticleIntel/internal/ports"
	"ArticleIntel/internal/usecase"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	shutdownTimeout = 10 * time.Second
)

// DifficultyAnalyzer scores reading difficulty.
type DifficultyAnalyzer interface {
	Analyze(text string) domain.DifficultyResult
}

// Summarizer builds extractive summaries.
type Summarizer interface {
	Summarize(text, method string, n int) domain.SummaryResult
	SummarizeAll(text string, n int) map[string]string
}

// CategoryClassifier assigns categories and manages keyword rules.
type CategoryClassifier interface {
	Votes(in classify.Input) []classify.Vote
	AddCategoryKeywords(category domain.Category, keywords ...string) error
	CategoryKeywords(category domain.Category) []string
	Version() uint64
}

// Tagger derives descriptive tags.
type Tagger interface {
	Extract(title, content string) []string
}

// Crawler runs one crawl-and-ingest cycle.
type Crawler interface {
	Run(ctx context.Context, opts domain.FetchOptions) (domain.IngestReport, error)
}

// Pinger is implemented by stores that can report their connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Trainer retrains the classifier model.
type Trainer interface {
	Train(ctx context.Context) (usecase.TrainResult, error)
}

// Deps wires the handler collaborators. Crawler, Trainer, Cache and Metrics are optional.
type Deps struct {
	Store      ports.ArticleStore
	Difficulty DifficultyAnalyzer
	Summary    Summarizer
	Classifier CategoryClassifier
	Tags       Tagger
	Crawler    Crawler
	Trainer    Trainer
	Cache      ports.Cache
	CacheTTL   time.Duration
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Handler serves every API route.
type Handler struct {
	store      ports.ArticleStore
	difficulty DifficultyAnalyzer
	summary    Summarizer
	classifier CategoryClassifier
	tags       Tagger
	crawler    Crawler
	trainer    Trainer
	cache      ports.Cache
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewHandler constructs the API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		store:      deps.Store,
		difficulty: deps.Difficulty,
		summary:    deps.Summary,
		classifier: deps.Classifier,
		tags:       deps.Tags,
		crawler:    deps.Crawler,
		trainer:    deps.Trainer,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), h.observe())
	SetupRoutes(router, h)
	return router
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", h.Health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/articles", h.ListArticles)
		api.GET("/articles/search", h.SearchArticles)
		api.GET("/articles/:id", h.GetArticle)
		api.GET("/categories", h.ListCategories)
		api.GET("/difficulty-stats", h.DifficultyStats)
		api.GET("/recommend", h.Recommend)
		api.POST("/crawl", h.Crawl)

		api.POST("/analyze-difficulty", h.AnalyzeDifficulty)
		api.POST("/generate-summary", h.GenerateSummary)
		api.POST("/classify", h.Classify)

		classifier := api.Group("/classifier")
		{
			classifier.POST("/train", h.TrainClassifier)
			classifier.GET("/categories/:category/keywords", h.CategoryKeywords)
			classifier.POST("/categories/:category/keywords", h.AddCategoryKeywords)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		h.fail(c, http.StatusNotFound, "endpoint not found")
	})
}

// Server runs the router on an http.Server with graceful shutdown.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer binds the router to addr.
func NewServer(addr string, router http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		}
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// observe logs each request and feeds the HTTP metrics.
func (h *Handler) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		if h.metrics != nil {
			h.metrics.ObserveHTTP(c.Request.Method, c.FullPath(), status, elapsed)
		}
		h.log().Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", requestID(c))
	}
}

func (h *Handler) log() *slog.Logger {
	if h.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.logger
}
