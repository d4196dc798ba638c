package classify

import (
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"ArticleIntel/internal/textutil"
)

// Tag labels produced from content structure.
const (
	TagGeneral   = "General"
	TagData      = "Data"
	TagQuotes    = "Quotes"
	TagList      = "List"
	TagTimeline  = "Timeline"
	TagLongRead  = "Long Read"
	TagQuickRead = "Quick Read"

	// MaxTags caps the tags returned for one article.
	MaxTags = 5

	longReadWords  = 1000
	quickReadWords = 300
)

var (
	dataExpr     = regexp.MustCompile(`\d+%|\d+\.\d+|\d+,\d+`)
	quotesExpr   = regexp.MustCompile(`"[^"]*"|'[^']*'`)
	listExpr     = regexp.MustCompile(`\d+\.\s|•\s|-\s`)
	timelineExpr = regexp.MustCompile(`\d{4}|\d{1,2}/\d{1,2}/\d{4}|january|february|march|april|may|june|july|august|september|october|november|december`)
)

// TagExtractor derives up to MaxTags descriptive labels from an article.
// It is immutable and safe for concurrent use.
type TagExtractor struct {
	tags    []string
	matcher *ahocorasick.Matcher
	owners  [][]int // matcher dictionary index -> tag indices
}

// NewTagExtractor compiles the tag tables of kb.
func NewTagExtractor(kb KnowledgeBase) *TagExtractor {
	t := &TagExtractor{}
	var dictionary []string
	index := map[string]int{}
	for i, rule := range kb.Tags {
		t.tags = append(t.tags, rule.Tag)
		for _, phrase := range rule.Keywords {
			phrase = strings.ToLower(strings.TrimSpace(phrase))
			if phrase == "" {
				continue
			}
			pos, ok := index[phrase]
			if !ok {
				pos = len(dictionary)
				index[phrase] = pos
				dictionary = append(dictionary, phrase)
				t.owners = append(t.owners, nil)
			}
			t.owners[pos] = append(t.owners[pos], i)
		}
	}
	if len(dictionary) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(dictionary)
	}
	return t
}

// Extract returns keyword tags followed by structural tags, deduplicated and capped.
// It never returns an empty slice.
func (t *TagExtractor) Extract(title, content string) []string {
	tags := append(t.keywordTags(title, content), structuralTags(content)...)

	seen := map[string]bool{}
	out := make([]string, 0, MaxTags)
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	if len(out) == 0 {
		return []string{TagGeneral}
	}
	return out
}

func (t *TagExtractor) keywordTags(title, content string) []string {
	if t.matcher == nil {
		return nil
	}

	text := strings.ToLower(title + " " + content)
	fired := make([]bool, len(t.tags))
	for _, hit := range t.matcher.MatchThreadSafe([]byte(text)) {
		for _, tagIdx := range t.owners[hit] {
			fired[tagIdx] = true
		}
	}

	var out []string
	for i, ok := range fired {
		if ok {
			out = append(out, t.tags[i])
		}
	}
	return out
}

func structuralTags(content string) []string {
	var out []string
	if dataExpr.MatchString(content) {
		out = append(out, TagData)
	}
	if quotesExpr.MatchString(content) {
		out = append(out, TagQuotes)
	}
	if listExpr.MatchString(content) {
		out = append(out, TagList)
	}
	if timelineExpr.MatchString(strings.ToLower(content)) {
		out = append(out, TagTimeline)
	}

	switch words := textutil.WordCount(content); {
	case words > longReadWords:
		out = append(out, TagLongRead)
	case words < quickReadWords:
		out = append(out, TagQuickRead)
	}
	return out
}
