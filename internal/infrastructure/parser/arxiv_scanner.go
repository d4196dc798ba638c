package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/ports"
	"ArticleIntel/internal/scanner"
)

const (
	arxivBaseURL     = "https://arxiv.org"
	arxivDefaultPage = 200
)

var dateExpr = regexp.MustCompile(`\d{1,2} [A-Za-z]{3} \d{4}`)

// ArxivScanner crawls arXiv listing pages and turns abstracts into articles.
type ArxivScanner struct {
	downloader ports.Downloader
	pageSize   int
	logger     *slog.Logger
}

var _ scanner.Scanner = (*ArxivScanner)(nil)

// NewArxivScanner wires the downloader; pageSize defaults to 200.
func NewArxivScanner(downloader ports.Downloader, logger *slog.Logger) *ArxivScanner {
	return &ArxivScanner{downloader: downloader, pageSize: arxivDefaultPage, logger: logger}
}

// Name identifies the strategy inside the registry.
func (a *ArxivScanner) Name() string {
	return "arxiv"
}

// Scan walks each listing URL. With req.Since set it pages back until entries
// get older than that day; otherwise only the first page is read.
func (a *ArxivScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawArticle, error) {
	if len(req.Feeds) == 0 {
		return nil, fmt.Errorf("no categories provided for site %s", req.SiteName)
	}

	var since time.Time
	if !req.Since.IsZero() {
		since = req.Since.UTC().Truncate(24 * time.Hour)
	}

	results := make([]domain.RawArticle, 0)
	seen := map[string]struct{}{}

	for _, cat := range req.Feeds {
		skip := 0
		taken := 0
		for {
			pageURL, err := buildPageURL(cat.URL, skip, a.pageSize)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", cat.Name, err)
			}

			doc, err := a.fetchDocument(ctx, pageURL)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", cat.Name, err)
			}

			pageArticles, shouldContinue := a.extractArticles(doc, since, req.SiteName, cat.Name)
			for _, article := range pageArticles {
				if _, ok := seen[article.URL]; ok {
					continue
				}
				if req.MaxItems > 0 && taken >= req.MaxItems {
					shouldContinue = false
					break
				}
				seen[article.URL] = struct{}{}
				results = append(results, article)
				taken++
			}

			if !shouldContinue || since.IsZero() {
				break
			}
			skip += a.pageSize
		}
		a.debug("category scanned", "site", req.SiteName, "category", cat.Name, "articles", taken)
	}

	return results, nil
}

func (a *ArxivScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := a.downloader.Download(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (a *ArxivScanner) extractArticles(doc *goquery.Document, since time.Time, siteName, category string) ([]domain.RawArticle, bool) {
	var (
		collected    []domain.RawArticle
		continueScan = true
		processed    int
	)

	doc.Find("dl > dt").EachWithBreak(func(i int, dt *goquery.Selection) bool {
		dd := dt.Next()
		processed++

		article, ok := parseEntry(dt, dd, siteName, category)
		if !ok {
			return true
		}

		articleDay := article.PublishDate.UTC().Truncate(24 * time.Hour)
		if !since.IsZero() && articleDay.Before(since) {
			continueScan = false
			return false
		}
		collected = append(collected, article)
		return true
	})

	if processed < a.pageSize {
		continueScan = false
	}

	return collected, continueScan
}

// parseEntry reads one dt/dd listing pair. Entries without a title or abstract are rejected.
func parseEntry(dt, dd *goquery.Selection, siteName, category string) (domain.RawArticle, bool) {
	link := dt.Find("a[href*=\"/abs/\"]").First()
	href, _ := link.Attr("href")
	if href == "" {
		return domain.RawArticle{}, false
	}
	if !strings.HasPrefix(href, "http") {
		href = strings.TrimSuffix(arxivBaseURL, "/") + href
	}

	title := strings.TrimSpace(dd.Find(".list-title").First().Text())
	title = strings.TrimPrefix(title, "Title:")
	title = strings.TrimSpace(title)

	abstract := dd.Find("p.mathjax").First().Text()
	abstract = strings.TrimPrefix(strings.TrimSpace(abstract), "Abstract:")
	abstract = strings.TrimSpace(abstract)

	if title == "" || abstract == "" {
		return domain.RawArticle{}, false
	}

	authors := strings.TrimSpace(dd.Find(".list-authors").First().Text())
	authors = strings.TrimSpace(strings.TrimPrefix(authors, "Authors:"))

	dateText := strings.TrimSpace(dd.Find(".list-date").First().Text())
	if dateText == "" {
		dateText = strings.TrimSpace(dd.Find(".list-dateline").First().Text())
	}

	publishedAt := time.Now().UTC()
	if match := dateExpr.FindString(dateText); match != "" {
		if parsed, err := time.Parse("2 Jan 2006", match); err == nil {
			publishedAt = parsed
		}
	}

	source := siteName
	if category != "" {
		source = fmt.Sprintf("%s/%s", siteName, category)
	}

	return domain.RawArticle{
		Title:       title,
		Author:      authors,
		Content:     abstract,
		URL:         href,
		Source:      source,
		PublishDate: &publishedAt,
	}, true
}

func buildPageURL(base string, skip, pageSize int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid category url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("skip", strconv.Itoa(skip))
	query.Set("show", strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (a *ArxivScanner) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
