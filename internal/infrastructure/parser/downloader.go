package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"ArticleIntel/internal/ports"
)

const (
	defaultUserAgent         = "Mozilla/5.0 (compatible; ArticleIntel/1.0)"
	defaultTimeout           = 10 * time.Second
	defaultRequestsPerSecond = 5
)

// DownloaderOptions tunes the HTTP downloader. Zero values pick defaults.
type DownloaderOptions struct {
	Client            *http.Client
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// HTTPDownloader fetches pages with a shared rate limit between requests.
type HTTPDownloader struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

var _ ports.Downloader = (*HTTPDownloader)(nil)

// NewHTTPDownloader builds a downloader; a nil client gets one with the configured timeout.
func NewHTTPDownloader(opts DownloaderOptions) *HTTPDownloader {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRequestsPerSecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &HTTPDownloader{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		userAgent: opts.UserAgent,
	}
}

// Download waits for the limiter, then returns the response body of a 200 reply.
func (d *HTTPDownloader) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}
