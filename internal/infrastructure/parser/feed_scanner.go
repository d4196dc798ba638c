package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/ports"
	"ArticleIntel/internal/scanner"
)

// maxPageBytes bounds how much of an article page is read.
const maxPageBytes = 4 << 20

// FeedScanner reads RSS/Atom feeds and downloads the full text of each entry.
type FeedScanner struct {
	downloader ports.Downloader
	logger     *slog.Logger
}

var _ scanner.Scanner = (*FeedScanner)(nil)

// NewFeedScanner wires the page downloader shared by feeds and entries.
func NewFeedScanner(downloader ports.Downloader, logger *slog.Logger) *FeedScanner {
	return &FeedScanner{downloader: downloader, logger: logger}
}

// Name identifies the strategy inside the registry.
func (f *FeedScanner) Name() string {
	return "rss"
}

// Scan walks every feed of the request. A broken feed is logged and skipped.
func (f *FeedScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawArticle, error) {
	if len(req.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds provided for site %s", req.SiteName)
	}

	var results []domain.RawArticle
	for _, feed := range req.Feeds {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		articles, err := f.scanFeed(ctx, feed, req)
		if err != nil {
			f.warn("feed skipped", "site", req.SiteName, "feed", feed.Name, "error", err)
			continue
		}
		f.debug("feed scanned", "site", req.SiteName, "feed", feed.Name, "articles", len(articles))
		results = append(results, articles...)
	}
	return results, nil
}

func (f *FeedScanner) scanFeed(ctx context.Context, feed scanner.Feed, req scanner.Request) ([]domain.RawArticle, error) {
	body, err := f.downloader.Download(ctx, feed.URL)
	if err != nil {
		return nil, fmt.Errorf("download feed: %w", err)
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	source := feed.Name
	if source == "" {
		source = req.SiteName
	}

	items := parsed.Items
	if req.MaxItems > 0 && len(items) > req.MaxItems {
		items = items[:req.MaxItems]
	}

	articles := make([]domain.RawArticle, 0, len(items))
	for _, item := range items {
		link := entryLink(item)
		if link == "" {
			continue
		}
		if !req.Since.IsZero() && item.PublishedParsed != nil && item.PublishedParsed.Before(req.Since) {
			continue
		}

		content := f.entryContent(ctx, link, item)
		if content == "" {
			f.debug("entry dropped", "feed", feed.Name, "url", link)
			continue
		}

		articles = append(articles, domain.RawArticle{
			Title:       strings.TrimSpace(item.Title),
			Author:      entryAuthor(item, source),
			Content:     content,
			URL:         link,
			Source:      source,
			PublishDate: item.PublishedParsed,
		})
	}
	return articles, nil
}

// entryContent prefers the downloaded page; a short page falls back to the feed summary.
func (f *FeedScanner) entryContent(ctx context.Context, link string, item *gofeed.Item) string {
	text, err := f.pageText(ctx, link)
	if err != nil {
		f.debug("page download failed", "url", link, "error", err)
	}
	if utf8.RuneCountInString(text) >= MinContentChars {
		return text
	}

	summary := StripHTML(item.Description)
	if utf8.RuneCountInString(summary) > MinContentChars {
		return summary
	}
	return ""
}

func (f *FeedScanner) pageText(ctx context.Context, link string) (string, error) {
	body, err := f.downloader.Download(ctx, link)
	if err != nil {
		return "", err
	}
	defer body.Close()

	page, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return ExtractText(page, link), nil
}

func entryLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return ""
}

func entryAuthor(item *gofeed.Item, fallback string) string {
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return strings.TrimSpace(item.Author.Name)
	}
	for _, person := range item.Authors {
		if person != nil && strings.TrimSpace(person.Name) != "" {
			return strings.TrimSpace(person.Name)
		}
	}
	return fallback
}

func (f *FeedScanner) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *FeedScanner) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
