package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ArticleIntel/internal/domain"
)

// Feed describes a concrete endpoint provided by config (an RSS URL or a listing page).
type Feed struct {
	Name string
	URL  string
}

// Request carries all parameters required to execute a scan.
type Request struct {
	SiteName string
	Feeds    []Feed
	// MaxItems caps entries taken from each feed; zero means no cap.
	MaxItems int
	// Since drops entries published before it; zero keeps everything.
	Since   time.Time
	Options map[string]string
}

// Scanner captures a single strategy implementation (RSS, arXiv listing, etc.).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.RawArticle, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered (have %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists registered strategies in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
