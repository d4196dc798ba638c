// Package classify assigns a topic category and descriptive tags to articles.
package classify

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/domain"
)

// Signal names in priority order.
const (
	SignalKeyword = "keyword"
	SignalURL     = "url"
	SignalSource  = "source"
	SignalModel   = "model"
)

// Input is the part of an article the classifier reads.
type Input struct {
	Title   string
	Content string
	URL     string
	Source  string
}

// Vote is one signal's opinion. An empty Category means the signal abstained.
type Vote struct {
	Signal   string          `json:"signal"`
	Category domain.Category `json:"category,omitempty"`
}

type signal struct {
	name string
	vote func(r *categoryRules, in Input) domain.Category
}

// Classifier combines the keyword, URL, source and trained-model signals.
// It is safe for concurrent use; keyword updates publish a new rules snapshot.
type Classifier struct {
	rules    atomic.Pointer[categoryRules]
	revision atomic.Uint64
	writeMu  sync.Mutex
	models   *ModelStore
	signals  []signal
	logger   *slog.Logger
}

// NewClassifier compiles kb. A nil models store disables the trained-model signal.
func NewClassifier(kb KnowledgeBase, models *ModelStore, logger *slog.Logger) (*Classifier, error) {
	rules, err := compileCategoryRules(kb.clone())
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("component", "classifier")
	}

	c := &Classifier{models: models, logger: logger}
	c.rules.Store(rules)
	c.signals = []signal{
		{name: SignalKeyword, vote: keywordVote},
		{name: SignalURL, vote: urlVote},
		{name: SignalSource, vote: sourceVote},
		{name: SignalModel, vote: c.modelVote},
	}
	return c, nil
}

// Classify returns the category of in. The result is always a catalog member.
func (c *Classifier) Classify(in Input) domain.Category {
	return Combine(c.Votes(in))
}

// Votes evaluates every signal in priority order.
func (c *Classifier) Votes(in Input) []Vote {
	rules := c.rules.Load()
	votes := make([]Vote, 0, len(c.signals))
	for _, s := range c.signals {
		votes = append(votes, Vote{Signal: s.name, Category: s.vote(rules, in)})
	}
	return votes
}

// Combine resolves votes given in priority order. Unanimous votes and the
// priority rule both select the first cast vote; no vote, or a vote outside
// the catalog such as "Unknown", yields the default category.
func Combine(votes []Vote) domain.Category {
	for _, v := range votes {
		if v.Category == "" {
			continue
		}
		if category, ok := domain.ParseCategory(string(v.Category)); ok {
			return category
		}
		return domain.DefaultCategory
	}
	return domain.DefaultCategory
}

// AddCategoryKeywords appends keyword phrases to a category, skipping ones it already has.
func (c *Classifier) AddCategoryKeywords(category domain.Category, keywords ...string) error {
	resolved, ok := domain.ParseCategory(string(category))
	if !ok {
		return apperr.Input(fmt.Sprintf("unknown category %q", category))
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	kb := c.rules.Load().kb.clone()
	idx := slices.IndexFunc(kb.Categories, func(r CategoryRule) bool { return r.Category == resolved })
	if idx < 0 {
		kb.Categories = append(kb.Categories, CategoryRule{Category: resolved})
		idx = len(kb.Categories) - 1
	}

	existing := map[string]bool{}
	for _, k := range kb.Categories[idx].Keywords {
		existing[strings.ToLower(strings.TrimSpace(k))] = true
	}
	added := 0
	for _, k := range keywords {
		norm := strings.ToLower(strings.TrimSpace(k))
		if norm == "" || existing[norm] {
			continue
		}
		existing[norm] = true
		kb.Categories[idx].Keywords = append(kb.Categories[idx].Keywords, norm)
		added++
	}
	if added == 0 {
		return nil
	}

	rules, err := compileCategoryRules(kb)
	if err != nil {
		return fmt.Errorf("rebuild category rules: %w", err)
	}
	c.rules.Store(rules)
	c.revision.Add(1)
	c.debug("category keywords added", "category", resolved, "added", added)
	return nil
}

// Version changes whenever a keyword update or a model swap can change a
// classification. Callers caching results key them by it.
func (c *Classifier) Version() uint64 {
	v := c.revision.Load()
	if c.models != nil {
		v += c.models.Version()
	}
	return v
}

// CategoryKeywords returns a copy of the keyword phrases of category.
func (c *Classifier) CategoryKeywords(category domain.Category) []string {
	for _, rule := range c.rules.Load().kb.Categories {
		if strings.EqualFold(string(rule.Category), string(category)) {
			return append([]string(nil), rule.Keywords...)
		}
	}
	return nil
}

// keywordVote scores each category by occurrences weighted by phrase length.
// Ties go to the earlier category.
func keywordVote(r *categoryRules, in Input) domain.Category {
	text := strings.ToLower(in.Title + " " + in.Content)

	var (
		best      domain.Category
		bestScore int
	)
	for i, words := range r.keywords {
		score := 0
		for _, k := range words {
			score += strings.Count(text, k.phrase) * k.weight
		}
		if score > bestScore {
			best, bestScore = r.categories[i], score
		}
	}
	return best
}

// urlVote tries category keywords first, then the URL patterns.
func urlVote(r *categoryRules, in Input) domain.Category {
	url := strings.ToLower(strings.TrimSpace(in.URL))
	if url == "" {
		return ""
	}

	if r.urlMatcher != nil {
		if hits := r.urlMatcher.MatchThreadSafe([]byte(url)); len(hits) > 0 {
			return r.urlOwners[slices.Min(hits)]
		}
	}
	for _, p := range r.urlPatterns {
		if p.expr.MatchString(url) {
			return p.category
		}
	}
	return ""
}

func sourceVote(r *categoryRules, in Input) domain.Category {
	if strings.TrimSpace(in.Source) == "" {
		return ""
	}
	return r.sources[foldName(in.Source)]
}

// modelVote abstains when the model is missing or fails, including a panic
// from a model whose shape does not match its vocabulary.
func (c *Classifier) modelVote(_ *categoryRules, in Input) (category domain.Category) {
	if c.models == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			c.debug("model prediction panicked", "panic", r)
			category = ""
		}
	}()
	model := c.models.Load()
	if model == nil {
		return ""
	}
	category, err := model.Predict(in.Title + " " + in.Content)
	if err != nil {
		c.debug("model prediction failed", "error", err)
		return ""
	}
	return category
}

func (c *Classifier) debug(msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(msg, args...)
}
