package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleIntel/internal/scanner"
)

const arxivListing = `
<dl>
  <dt>
    <span class="list-identifier"><a href="/abs/2501.00001">arXiv:2501.00001</a></span>
  </dt>
  <dd>
    <div class="list-date">Date: 8 Nov 2025</div>
    <div class="list-title mathjax">Title: Fresh Article</div>
    <div class="list-authors">Authors: Ada Lovelace, Alan Turing</div>
    <p class="mathjax">Abstract: brand new.</p>
  </dd>
  <dt>
    <span class="list-identifier"><a href="/abs/2501.00002">arXiv:2501.00002</a></span>
  </dt>
  <dd>
    <div class="list-date">Date: 7 Nov 2025</div>
    <div class="list-title mathjax">Title: Old Article</div>
    <p class="mathjax">Abstract: older.</p>
  </dd>
</dl>`

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://export.arxiv.org/list/cs.AI/pastweek"
	u, err := buildPageURL(base, 200, 100)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	if parsed.Scheme != "https" || parsed.Host != "export.arxiv.org" {
		t.Fatalf("unexpected host: %s", parsed.Host)
	}

	q := parsed.Query()
	if q.Get("skip") != "200" {
		t.Fatalf("expected skip=200, got %s", q.Get("skip"))
	}
	if q.Get("show") != "100" {
		t.Fatalf("expected show=100, got %s", q.Get("show"))
	}
}

func TestParseEntry(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(arxivListing))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	dt := doc.Find("dt").First()
	dd := doc.Find("dd").First()

	article, ok := parseEntry(dt, dd, "arxiv-ai", "cs.AI")
	if !ok {
		t.Fatalf("parseEntry rejected a complete entry")
	}

	if article.URL != "https://arxiv.org/abs/2501.00001" {
		t.Fatalf("unexpected url: %s", article.URL)
	}
	if article.Title != "Fresh Article" {
		t.Fatalf("unexpected title: %s", article.Title)
	}
	if article.Content != "brand new." {
		t.Fatalf("unexpected content: %s", article.Content)
	}
	if article.Author != "Ada Lovelace, Alan Turing" {
		t.Fatalf("unexpected author: %s", article.Author)
	}
	if article.Source != "arxiv-ai/cs.AI" {
		t.Fatalf("unexpected source: %s", article.Source)
	}

	wantDate := time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC)
	if article.PublishDate == nil || !article.PublishDate.Equal(wantDate) {
		t.Fatalf("unexpected published date: %v", article.PublishDate)
	}
}

func TestParseEntryRejectsIncomplete(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<dl><dt><a href="/abs/1">x</a></dt><dd></dd></dl>`))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	if _, ok := parseEntry(doc.Find("dt").First(), doc.Find("dd").First(), "arxiv", ""); ok {
		t.Fatalf("expected entry without title to be rejected")
	}
}

func TestArxivScannerScan(t *testing.T) {
	t.Parallel()

	targetDay := time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(arxivListing))
	}))
	defer server.Close()

	downloader := NewHTTPDownloader(DownloaderOptions{Client: server.Client(), RequestsPerSecond: 100})
	sc := NewArxivScanner(downloader, nil)
	sc.pageSize = 10

	req := scanner.Request{
		SiteName: "arxiv-ai",
		Since:    targetDay.Add(3 * time.Hour),
		Feeds: []scanner.Feed{
			{Name: "cs.AI", URL: server.URL + "/list/cs.AI"},
		},
	}

	articles, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Title != "Fresh Article" {
		t.Fatalf("unexpected article: %s", articles[0].Title)
	}

	req.Since = time.Time{}
	all, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 articles without a lookback, got %d", len(all))
	}

	req.MaxItems = 1
	capped, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(capped) != 1 {
		t.Fatalf("expected cap of 1 article, got %d", len(capped))
	}
}

func TestArxivScannerRequiresFeeds(t *testing.T) {
	t.Parallel()

	sc := NewArxivScanner(NewHTTPDownloader(DownloaderOptions{}), nil)
	if _, err := sc.Scan(context.Background(), scanner.Request{SiteName: "arxiv"}); err == nil {
		t.Fatalf("expected error without feeds")
	}
}
