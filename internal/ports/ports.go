package ports

import (
	"context"
	"io"
	"time"

	"ArticleIntel/internal/domain"
)

// ArticleSource pulls fresh articles from upstream feeds.
type ArticleSource interface {
	FetchBatch(ctx context.Context, opts domain.FetchOptions) ([]domain.RawArticle, error)
}

// ArticleStore persists analyzed articles and answers read queries.
// Add reports inserted=false with a nil error when the URL is already stored.
type ArticleStore interface {
	Add(ctx context.Context, record domain.ArticleRecord) (id int64, inserted bool, err error)
	Query(ctx context.Context, filter domain.ArticleFilter, limit int) ([]domain.ArticleRecord, error)
	Get(ctx context.Context, id int64) (domain.ArticleRecord, error)
	Search(ctx context.Context, keyword string, limit int) ([]domain.ArticleRecord, error)
	Categories(ctx context.Context) ([]domain.CategoryEntry, error)
	DifficultyHistogram(ctx context.Context) ([]domain.LevelCount, error)
}

// Downloader fetches HTML payloads of article pages.
type Downloader interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Notifier streams ingestion reports to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Cache keeps short-lived analysis responses keyed by request hash.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
