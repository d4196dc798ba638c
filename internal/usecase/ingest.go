package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/ports"
)

// RecordAnalyzer turns a raw article into a record ready for storage.
type RecordAnalyzer interface {
	Analyze(raw domain.RawArticle) (domain.ArticleRecord, error)
}

// IngestObserver receives per-item and per-batch outcomes, e.g. for metrics.
type IngestObserver interface {
	ItemProcessed(status domain.ItemStatus)
	BatchCompleted(report domain.IngestReport)
}

// IngestDeps wires the coordinator collaborators. Notifier and Observer are optional.
type IngestDeps struct {
	Analyzer RecordAnalyzer
	Store    ports.ArticleStore
	Notifier ports.Notifier
	Observer IngestObserver
	Logger   *slog.Logger
}

// IngestionCoordinator analyzes and persists batches with per-item fault isolation.
type IngestionCoordinator struct {
	analyzer RecordAnalyzer
	store    ports.ArticleStore
	notifier ports.Notifier
	observer IngestObserver
	logger   *slog.Logger
}

// NewIngestionCoordinator constructs the batch ingestion step.
func NewIngestionCoordinator(deps IngestDeps) *IngestionCoordinator {
	return &IngestionCoordinator{
		analyzer: deps.Analyzer,
		store:    deps.Store,
		notifier: deps.Notifier,
		observer: deps.Observer,
		logger:   deps.Logger,
	}
}

// Ingest analyzes and stores every article of batch. One bad item never fails
// the batch: it is logged, reported as failed and the loop continues.
func (c *IngestionCoordinator) Ingest(ctx context.Context, batch []domain.RawArticle) domain.IngestReport {
	report := domain.IngestReport{
		BatchID: uuid.NewString(),
		Crawled: len(batch),
		Items:   make([]domain.ItemOutcome, 0, len(batch)),
	}
	log := c.log().With("batch_id", report.BatchID)

	for _, raw := range batch {
		outcome := c.ingestOne(ctx, raw)
		switch outcome.Status {
		case domain.StatusSaved:
			report.ProcessedOK++
			report.Saved++
		case domain.StatusDuplicate:
			report.ProcessedOK++
		case domain.StatusFailed:
			report.Failed++
			log.Warn("article failed", "url", raw.URL, "error", outcome.Error)
		}
		report.Items = append(report.Items, outcome)
		if c.observer != nil {
			c.observer.ItemProcessed(outcome.Status)
		}
	}
	report.Skipped = report.ProcessedOK - report.Saved

	log.Info("batch ingested",
		"crawled", report.Crawled,
		"processed_ok", report.ProcessedOK,
		"saved", report.Saved,
		"skipped", report.Skipped,
		"failed", report.Failed)

	if c.observer != nil {
		c.observer.BatchCompleted(report)
	}
	c.publish(ctx, report)
	return report
}

func (c *IngestionCoordinator) ingestOne(ctx context.Context, raw domain.RawArticle) domain.ItemOutcome {
	outcome := domain.ItemOutcome{URL: raw.URL, Title: raw.Title}

	record, err := c.analyzer.Analyze(raw)
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	id, inserted, err := c.store.Add(ctx, record)
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Error = fmt.Sprintf("store article: %v", err)
		return outcome
	}
	if !inserted {
		outcome.Status = domain.StatusDuplicate
		return outcome
	}

	outcome.Status = domain.StatusSaved
	outcome.ID = id
	return outcome
}

func (c *IngestionCoordinator) publish(ctx context.Context, report domain.IngestReport) {
	if c.notifier == nil || report.Crawled == 0 {
		return
	}
	if err := c.notifier.PublishDigest(ctx, buildDigestMessage(report)); err != nil {
		c.log().Warn("publish ingest report", "batch_id", report.BatchID, "error", err)
	}
}

func buildDigestMessage(report domain.IngestReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch %s\nCrawled: %d\nSaved: %d\nSkipped: %d\nFailed: %d\n",
		report.BatchID, report.Crawled, report.Saved, report.Skipped, report.Failed)

	for _, item := range report.Items {
		if item.Status != domain.StatusSaved {
			continue
		}
		fmt.Fprintf(&b, "\n- %s\n%s\n", item.Title, item.URL)
	}
	return b.String()
}

func (c *IngestionCoordinator) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}
