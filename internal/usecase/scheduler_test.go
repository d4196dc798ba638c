package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleIntel/internal/domain"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerRunsPipelineOnTrigger(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	pipeline := NewPipeline(PipelineDeps{
		Source: staticSource{articles: []domain.RawArticle{
			{Title: "one", Content: sampleContent, URL: "https://example.com/scheduled"},
		}},
		Ingestor: NewIngestionCoordinator(IngestDeps{Analyzer: newRealAnalyzer(t), Store: store}),
	})
	driver := &manualDriver{}
	sched := NewScheduler(driver, pipeline, nil)

	require.NoError(t, sched.Start(context.Background()))
	require.NotNil(t, driver.job)

	driver.job(time.Date(2025, 1, 2, 6, 0, 0, 0, time.UTC))
	driver.job(time.Date(2025, 1, 3, 6, 0, 0, 0, time.UTC))
	assert.Len(t, store.records, 1)

	require.NoError(t, sched.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestSchedulerWithoutDriverIsNoop(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(nil, nil, nil)
	assert.NoError(t, sched.Start(context.Background()))
	assert.NoError(t, sched.Stop(context.Background()))
}
