package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"ArticleIntel/internal/api"
	"ArticleIntel/internal/classify"
	"ArticleIntel/internal/config"
	"ArticleIntel/internal/difficulty"
	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/infrastructure/cache"
	"ArticleIntel/internal/infrastructure/parser"
	"ArticleIntel/internal/infrastructure/scheduler"
	"ArticleIntel/internal/infrastructure/storage"
	"ArticleIntel/internal/infrastructure/telegram"
	"ArticleIntel/internal/logging"
	"ArticleIntel/internal/metrics"
	"ArticleIntel/internal/ports"
	"ArticleIntel/internal/scanner"
	"ArticleIntel/internal/summary"
	"ArticleIntel/internal/textmetrics"
	"ArticleIntel/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *storage.SQLStore
	cache     *cache.RedisCache
	metrics   *metrics.Metrics
	pipeline  *usecase.Pipeline
	trainer   *usecase.Trainer
	scheduler *usecase.Scheduler
	handler   *api.Handler
}

// New opens the store and builds every engine and use case.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(nil, cfg.Logging.Level, cfg.Logging.Format)
	}

	store, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open article store: %w", err)
	}
	a := &Application{cfg: cfg, logger: baseLogger, store: store, metrics: metrics.New()}

	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Application) build(ctx context.Context) error {
	cfg := a.cfg
	log := a.logger

	kb, err := classify.LoadKnowledgeBase(cfg.Classifier.KnowledgeBasePath)
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}
	models := classify.NewModelStore()
	a.loadModel(models)

	classifier, err := classify.NewClassifier(kb, models, log)
	if err != nil {
		return fmt.Errorf("build classifier: %w", err)
	}
	tags := classify.NewTagExtractor(kb)
	scorer := difficulty.NewScorer(textmetrics.New())
	summarizer := summary.New(summary.Options{
		DefaultMethod:  cfg.Summary.DefaultMethod,
		SentencesCount: cfg.Summary.SentencesCount,
	}, log)

	analyzer := usecase.NewAnalyzer(usecase.AnalyzerDeps{
		Difficulty: scorer,
		Summary:    summarizer,
		Classifier: classifier,
		Tags:       tags,
		Logger:     log.With("component", "analyzer"),
	})

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}
	ingestor := usecase.NewIngestionCoordinator(usecase.IngestDeps{
		Analyzer: analyzer,
		Store:    a.store,
		Notifier: notifier,
		Observer: a.metrics,
		Logger:   log.With("component", "ingest"),
	})

	downloader := parser.NewHTTPDownloader(parser.DownloaderOptions{
		UserAgent:         cfg.Crawler.UserAgent,
		Timeout:           cfg.Crawler.Timeout,
		RequestsPerSecond: cfg.Crawler.RequestsPerSecond,
	})
	registry := scanner.NewRegistry()
	registry.Register(parser.NewFeedScanner(downloader, log.With("component", "scanner.rss")))
	registry.Register(parser.NewArxivScanner(downloader, log.With("component", "scanner.arxiv")))
	log.Debug("scanners registered", "names", registry.Names())
	source := parser.NewStrategySource(registry, cfg.Crawler, log.With("component", "source"))

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:   source,
		Ingestor: ingestor,
		Logger:   log.With("component", "pipeline"),
	})
	a.trainer = usecase.NewTrainer(usecase.TrainerDeps{
		Store:     a.store,
		Models:    models,
		ModelPath: cfg.Classifier.ModelPath,
		Logger:    log.With("component", "trainer"),
	})

	if cfg.Scheduler.Enabled {
		if err := scheduler.Validate(cfg.Scheduler.CronExpression); err != nil {
			return err
		}
		driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location(), log.With("component", "cron"))
		a.scheduler = usecase.NewScheduler(driver, a.pipeline, log.With("component", "scheduler"))
	}

	deps := api.Deps{
		Store:      a.store,
		Difficulty: scorer,
		Summary:    summarizer,
		Classifier: classifier,
		Tags:       tags,
		Crawler:    a.pipeline,
		Trainer:    a.trainer,
		CacheTTL:   cfg.Cache.TTL,
		Metrics:    a.metrics,
		Logger:     log.With("component", "api"),
	}
	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			log.Warn("response cache disabled", "addr", cfg.Cache.RedisAddr, "error", err)
		} else {
			a.cache = redisCache
			deps.Cache = redisCache
		}
	}
	a.handler = api.NewHandler(deps)
	return nil
}

// loadModel publishes a previously trained model when one exists on disk.
func (a *Application) loadModel(models *classify.ModelStore) {
	path := a.cfg.Classifier.ModelPath
	if path == "" {
		return
	}
	model, err := classify.LoadModel(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("classifier model ignored", "path", path, "error", err)
		}
		return
	}
	models.Swap(model)
	a.metrics.ModelLoaded(model.Samples)
	a.logger.Info("classifier model loaded", "path", path, "samples", model.Samples)
}

// Serve runs the HTTP API and, when enabled, the crawl scheduler until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			if err := a.scheduler.Stop(context.Background()); err != nil {
				a.logger.Warn("scheduler stop failed", "error", err)
			}
		}()
	}

	server := api.NewServer(a.cfg.Server.Addr, api.NewRouter(a.handler), a.logger.With("component", "http"))
	return server.Run(ctx)
}

// Crawl runs one crawl-and-ingest cycle.
func (a *Application) Crawl(ctx context.Context, opts domain.FetchOptions) (domain.IngestReport, error) {
	return a.pipeline.Run(ctx, opts)
}

// Train retrains the classifier from stored articles.
func (a *Application) Train(ctx context.Context) (usecase.TrainResult, error) {
	result, err := a.trainer.Train(ctx)
	if err == nil {
		a.metrics.ModelLoaded(result.Samples)
	}
	return result, err
}

// Close releases the store and the cache connection.
func (a *Application) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
