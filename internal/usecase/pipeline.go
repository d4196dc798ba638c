package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/ports"
)

// PipelineDeps wires the crawl source into batch ingestion.
type PipelineDeps struct {
	Source   ports.ArticleSource
	Ingestor *IngestionCoordinator
	Logger   *slog.Logger
}

// Pipeline implements the crawl-and-ingest workflow.
type Pipeline struct {
	source   ports.ArticleSource
	ingestor *IngestionCoordinator
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:   deps.Source,
		ingestor: deps.Ingestor,
		logger:   deps.Logger,
	}
}

// Run fetches one batch from the configured feeds and ingests it.
func (p *Pipeline) Run(ctx context.Context, opts domain.FetchOptions) (domain.IngestReport, error) {
	if p.source == nil || p.ingestor == nil {
		return domain.IngestReport{}, fmt.Errorf("crawl pipeline is not configured")
	}

	articles, err := p.source.FetchBatch(ctx, opts)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("fetch batch: %w", err)
	}
	p.debug("batch fetched", "articles", len(articles))

	return p.ingestor.Ingest(ctx, articles), nil
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
