package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/ports"
)

const (
	tagSeparator = ", "

	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

var articleColumns = []string{
	"id", "title", "author", "content", "summary", "url", "source", "publish_date",
	"difficulty_level", "difficulty_score", "recommended_exam", "category", "tags",
	"word_count", "created_at",
}

// SQLStore persists analyzed articles into SQLite or Postgres.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ ports.ArticleStore = (*SQLStore)(nil)

// articleRow is the storage shape of a record; tags live in one delimited column.
type articleRow struct {
	domain.ArticleRecord
	TagList string `db:"tags"`
}

// Open connects to driver/dsn, tunes the pool and applies the schema.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if dialect == DialectSQLite {
		// one writer; also keeps a :memory: database alive across calls
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetMaxIdleConns(defaultMaxIdleConns)
		db.SetConnMaxLifetime(defaultConnMaxLifetime)
	}

	store := NewSQLStore(db, dialect)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore wires an existing connection.
func NewSQLStore(db *sqlx.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.placeholder()),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks connectivity.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Add inserts record. A URL that is already stored yields inserted=false and no error.
func (s *SQLStore) Add(ctx context.Context, record domain.ArticleRecord) (int64, bool, error) {
	query, args, err := s.builder.Insert("articles").
		Columns(articleColumns[1:]...).
		Values(
			record.Title,
			record.Author,
			record.Content,
			record.Summary,
			record.URL,
			record.Source,
			record.PublishDate,
			string(record.DifficultyLevel),
			record.DifficultyScore,
			record.RecommendedExam,
			string(record.Category),
			strings.Join(record.Tags, tagSeparator),
			record.WordCount,
			s.now(),
		).
		Suffix("ON CONFLICT (url) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("insert article: %w", err)
	}
	return id, true, nil
}

// Query lists the newest articles matching filter.
func (s *SQLStore) Query(ctx context.Context, filter domain.ArticleFilter, limit int) ([]domain.ArticleRecord, error) {
	q := s.selectArticles().OrderBy("created_at DESC", "id DESC").Limit(uint64(max(limit, 1)))
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": string(filter.Category)})
	}
	if filter.Difficulty != "" {
		q = q.Where(sq.Eq{"difficulty_level": string(filter.Difficulty)})
	}
	return s.list(ctx, q)
}

// Get loads one article or returns a not-found error.
func (s *SQLStore) Get(ctx context.Context, id int64) (domain.ArticleRecord, error) {
	query, args, err := s.selectArticles().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("build get: %w", err)
	}

	var row articleRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ArticleRecord{}, apperr.NotFound(fmt.Sprintf("article %d not found", id))
		}
		return domain.ArticleRecord{}, fmt.Errorf("get article: %w", err)
	}
	return row.record(), nil
}

// Search matches keyword against title, content and summary.
func (s *SQLStore) Search(ctx context.Context, keyword string, limit int) ([]domain.ArticleRecord, error) {
	pattern := "%" + keyword + "%"
	var match sq.Or
	for _, col := range []string{"title", "content", "summary"} {
		if s.dialect == DialectPostgres {
			match = append(match, sq.ILike{col: pattern})
		} else {
			match = append(match, sq.Like{col: pattern})
		}
	}
	q := s.selectArticles().Where(match).OrderBy("created_at DESC", "id DESC").Limit(uint64(max(limit, 1)))
	return s.list(ctx, q)
}

// Categories returns the seeded catalog.
func (s *SQLStore) Categories(ctx context.Context) ([]domain.CategoryEntry, error) {
	query, args, err := s.builder.Select("id", "name", "description").From("categories").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories: %w", err)
	}

	var out []domain.CategoryEntry
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// DifficultyHistogram counts stored articles per difficulty level.
func (s *SQLStore) DifficultyHistogram(ctx context.Context) ([]domain.LevelCount, error) {
	query, args, err := s.builder.
		Select("difficulty_level", "COUNT(*) AS count").
		From("articles").
		GroupBy("difficulty_level").
		OrderBy("difficulty_level").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build histogram: %w", err)
	}

	var out []domain.LevelCount
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("difficulty histogram: %w", err)
	}
	return out, nil
}

func (s *SQLStore) selectArticles() sq.SelectBuilder {
	return s.builder.Select(articleColumns...).From("articles")
}

func (s *SQLStore) list(ctx context.Context, q sq.SelectBuilder) ([]domain.ArticleRecord, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []articleRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}

	out := make([]domain.ArticleRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

func (r articleRow) record() domain.ArticleRecord {
	rec := r.ArticleRecord
	rec.Tags = splitTags(r.TagList)
	return rec
}

func splitTags(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, tagSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
