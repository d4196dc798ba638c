package classify

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"ArticleIntel/internal/domain"
)

//go:embed knowledge_base.yaml
var defaultKnowledgeBase []byte

// KnowledgeBase holds the keyword tables used by the classifier and the tag extractor.
type KnowledgeBase struct {
	Categories  []CategoryRule    `yaml:"categories"`
	URLPatterns []URLPattern      `yaml:"urlPatterns"`
	Sources     map[string]string `yaml:"sources"`
	Tags        []TagRule         `yaml:"tags"`
}

// CategoryRule lists the keyword phrases of one category.
type CategoryRule struct {
	Category domain.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// URLPattern is a regular expression matched against lowercased URLs.
type URLPattern struct {
	Pattern  string          `yaml:"pattern"`
	Category domain.Category `yaml:"category"`
}

// TagRule lists the keyword phrases that emit a tag.
type TagRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// DefaultKnowledgeBase returns the built-in tables.
func DefaultKnowledgeBase() (KnowledgeBase, error) {
	return parseKnowledgeBase(defaultKnowledgeBase)
}

// LoadKnowledgeBase reads tables from a YAML file. An empty path yields the built-in tables.
func LoadKnowledgeBase(path string) (KnowledgeBase, error) {
	if path == "" {
		return DefaultKnowledgeBase()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return KnowledgeBase{}, fmt.Errorf("read knowledge base: %w", err)
	}
	return parseKnowledgeBase(data)
}

func parseKnowledgeBase(data []byte) (KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return KnowledgeBase{}, fmt.Errorf("decode knowledge base: %w", err)
	}
	return kb, nil
}

// clone deep-copies the keyword slices so snapshots never share backing arrays.
func (kb KnowledgeBase) clone() KnowledgeBase {
	out := KnowledgeBase{
		Categories:  make([]CategoryRule, len(kb.Categories)),
		URLPatterns: append([]URLPattern(nil), kb.URLPatterns...),
		Sources:     make(map[string]string, len(kb.Sources)),
		Tags:        make([]TagRule, len(kb.Tags)),
	}
	for i, rule := range kb.Categories {
		out.Categories[i] = CategoryRule{Category: rule.Category, Keywords: append([]string(nil), rule.Keywords...)}
	}
	for k, v := range kb.Sources {
		out.Sources[k] = v
	}
	for i, rule := range kb.Tags {
		out.Tags[i] = TagRule{Tag: rule.Tag, Keywords: append([]string(nil), rule.Keywords...)}
	}
	return out
}

// categoryRules is the compiled, read-only form of the category tables.
type categoryRules struct {
	kb KnowledgeBase

	categories []domain.Category
	keywords   [][]keyword // per category, lowercased

	urlMatcher  *ahocorasick.Matcher
	urlOwners   []domain.Category // indexed like the matcher dictionary
	urlPatterns []compiledPattern

	sources map[string]domain.Category // case-folded names
}

type keyword struct {
	phrase string
	weight int
}

type compiledPattern struct {
	expr     *regexp.Regexp
	category domain.Category
}

// foldName builds a fresh Caser per call; Casers carry state and must not be shared.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func compileCategoryRules(kb KnowledgeBase) (*categoryRules, error) {
	r := &categoryRules{kb: kb, sources: map[string]domain.Category{}}

	var dictionary []string
	seen := map[string]bool{}
	for _, rule := range kb.Categories {
		category, ok := domain.ParseCategory(string(rule.Category))
		if !ok {
			return nil, fmt.Errorf("knowledge base: unknown category %q", rule.Category)
		}
		r.categories = append(r.categories, category)

		words := make([]keyword, 0, len(rule.Keywords))
		for _, phrase := range rule.Keywords {
			phrase = strings.ToLower(strings.TrimSpace(phrase))
			if phrase == "" {
				continue
			}
			words = append(words, keyword{phrase: phrase, weight: len(strings.Fields(phrase))})

			// the dictionary is in catalog/keyword order, so a lower hit index is an earlier keyword
			if !seen[phrase] {
				seen[phrase] = true
				dictionary = append(dictionary, phrase)
				r.urlOwners = append(r.urlOwners, category)
			}
		}
		r.keywords = append(r.keywords, words)
	}
	if len(dictionary) > 0 {
		r.urlMatcher = ahocorasick.NewStringMatcher(dictionary)
	}

	for _, p := range kb.URLPatterns {
		category, ok := domain.ParseCategory(string(p.Category))
		if !ok {
			return nil, fmt.Errorf("knowledge base: unknown url pattern category %q", p.Category)
		}
		expr, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("knowledge base: compile url pattern %q: %w", p.Pattern, err)
		}
		r.urlPatterns = append(r.urlPatterns, compiledPattern{expr: expr, category: category})
	}

	for name, value := range kb.Sources {
		category, ok := domain.ParseCategory(value)
		if !ok {
			return nil, fmt.Errorf("knowledge base: source %q maps to unknown category %q", name, value)
		}
		r.sources[foldName(name)] = category
	}

	return r, nil
}
