package storage

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"ArticleIntel/internal/domain"
)

// Dialect selects placeholder style and column types.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a driver name to its dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

func (d Dialect) schema() []string {
	serial, real := "INTEGER PRIMARY KEY AUTOINCREMENT", "REAL"
	if d == DialectPostgres {
		serial, real = "BIGSERIAL PRIMARY KEY", "DOUBLE PRECISION"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id ` + serial + `,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL DEFAULT '',
			publish_date TIMESTAMP NULL,
			difficulty_level TEXT NOT NULL,
			difficulty_score ` + real + ` NOT NULL DEFAULT 0,
			recommended_exam TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles (category)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_difficulty ON articles (difficulty_level)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id ` + serial + `,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT ''
		)`,
	}
}

// Migrate creates missing tables and seeds the category catalog.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	seed := s.builder.Insert("categories").Columns("name", "description")
	for _, entry := range domain.Catalog() {
		seed = seed.Values(entry.Name, entry.Description)
	}
	query, args, err := seed.Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build category seed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
