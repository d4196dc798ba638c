package parser

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// MinContentChars is the shortest page text accepted as article content.
const MinContentChars = 200

// contentSelectors are tried in order; the first container whose paragraphs
// exceed MinContentChars wins.
var contentSelectors = []string{
	"article",
	"div.article__content",
	"div.c-article-content",
	"div#content",
	"div.entry-content",
	"section.article-body",
	"div.l-container",
}

// ExtractText pulls readable article text out of an HTML page. Paragraphs are
// joined with newlines. An unparsable page yields an empty string.
func ExtractText(page []byte, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	var texts []string
	for _, sel := range contentSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		texts = blockTexts(node.Find("p, li"))
		if utf8.RuneCountInString(strings.Join(texts, " ")) > MinContentChars {
			break
		}
	}
	if len(texts) > 0 {
		return strings.Join(texts, "\n")
	}

	if text := readabilityText(page, pageURL); text != "" {
		return text
	}
	return strings.Join(blockTexts(doc.Find("p")), "\n")
}

// StripHTML returns the visible text of an HTML fragment such as a feed summary.
func StripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

func blockTexts(sel *goquery.Selection) []string {
	texts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}

func readabilityText(page []byte, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(page), parsed)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
