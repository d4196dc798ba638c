package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/config"
	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/ports"
	"ArticleIntel/internal/scanner"
)

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry   *scanner.Registry
	sites      []config.SiteConfig
	maxPerFeed int
	lookback   time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, crawler config.CrawlerConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry:   reg,
		sites:      crawler.Sites,
		maxPerFeed: crawler.MaxPerFeed,
		lookback:   crawler.Lookback,
		now:        time.Now,
		logger:     log,
	}
}

// FetchBatch iterates over configured sites and executes their scanners.
// opts may restrict the sites by name and override the per-feed cap.
// A failing site is logged and skipped; the batch fails only when every site failed.
func (s *StrategySource) FetchBatch(ctx context.Context, opts domain.FetchOptions) ([]domain.RawArticle, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	sites, err := s.selectSites(opts.Sites)
	if err != nil {
		return nil, err
	}
	maxPerFeed := s.maxPerFeed
	if opts.MaxPerFeed > 0 {
		maxPerFeed = opts.MaxPerFeed
	}

	s.debug("fetch batch", "sites", len(sites), "max_per_feed", maxPerFeed)

	var since time.Time
	if s.lookback > 0 {
		since = s.now().Add(-s.lookback)
	}

	var (
		aggregated []domain.RawArticle
		failures   []error
		seen       = map[string]struct{}{}
	)
	for _, site := range sites {
		s.debug("process site", "site", site.Name, "scanner", site.Scanner, "feeds", len(site.Feeds))
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			SiteName: site.Name,
			Feeds:    toScannerFeeds(site.Feeds),
			MaxItems: maxPerFeed,
			Since:    since,
			Options:  site.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
			}
			s.warn("site skipped", "site", site.Name, "error", err)
			failures = append(failures, fmt.Errorf("scan site %s: %w", site.Name, err))
			continue
		}

		added := 0
		for _, article := range results {
			if _, dup := seen[article.URL]; dup {
				continue
			}
			seen[article.URL] = struct{}{}
			if article.Source == "" {
				article.Source = site.Name
			}
			aggregated = append(aggregated, article)
			added++
		}
		s.debug("site produced articles", "site", site.Name, "count", added)
	}

	if len(aggregated) == 0 && len(failures) > 0 && len(failures) == len(sites) {
		return nil, errors.Join(failures...)
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

// selectSites returns the configured sites named in names, or all of them when names is empty.
func (s *StrategySource) selectSites(names []string) ([]config.SiteConfig, error) {
	if len(names) == 0 {
		return s.sites, nil
	}

	var out []config.SiteConfig
	for _, name := range names {
		idx := slices.IndexFunc(s.sites, func(site config.SiteConfig) bool {
			return strings.EqualFold(site.Name, strings.TrimSpace(name))
		})
		if idx < 0 {
			return nil, apperr.Input(fmt.Sprintf("unknown source %q", name))
		}
		if !slices.ContainsFunc(out, func(site config.SiteConfig) bool { return site.Name == s.sites[idx].Name }) {
			out = append(out, s.sites[idx])
		}
	}
	return out, nil
}

func toScannerFeeds(cfg []config.FeedConfig) []scanner.Feed {
	feeds := make([]scanner.Feed, 0, len(cfg))
	for _, feed := range cfg {
		feeds = append(feeds, scanner.Feed{
			Name: feed.Name,
			URL:  feed.URL,
		})
	}
	return feeds
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
