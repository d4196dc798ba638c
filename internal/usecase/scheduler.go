package usecase

import (
	"context"
	"log/slog"
	"time"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/ports"
)

// Scheduler wires the cron driver with the crawl pipeline.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring crawls.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.pipeline.Run(ctx, domain.FetchOptions{})
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Error("scheduled crawl failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled crawl finished", "trigger", trigger, "batch_id", report.BatchID, "saved", report.Saved)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
