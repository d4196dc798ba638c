package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/domain"
)

func openMemoryStore(t *testing.T) *SQLStore {
	t.Helper()

	store, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(url string, category domain.Category, level domain.Level) domain.ArticleRecord {
	return domain.ArticleRecord{
		Title:           "Title for " + url,
		Content:         "Solar panels and wind farms power the region.",
		Summary:         "Solar panels power the region.",
		URL:             url,
		Source:          "Example Wire",
		DifficultyLevel: level,
		DifficultyScore: 42.5,
		RecommendedExam: "CET-6",
		Category:        category,
		Tags:            []string{"Analysis", "Quick Read"},
		WordCount:       8,
	}
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	for driver, want := range map[string]Dialect{
		"sqlite":     DialectSQLite,
		"SQLite3":    DialectSQLite,
		"postgres":   DialectPostgres,
		"postgresql": DialectPostgres,
	} {
		got, err := ParseDialect(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, got, driver)
	}

	_, err := ParseDialect("mysql")
	assert.Error(t, err)
}

func TestSQLiteAddDeduplicatesByURL(t *testing.T) {
	t.Parallel()

	store := openMemoryStore(t)
	ctx := context.Background()

	id, inserted, err := store.Add(ctx, record("https://example.com/a", domain.CategoryEnvironment, domain.LevelIntermediate))
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Positive(t, id)

	_, inserted, err = store.Add(ctx, record("https://example.com/a", domain.CategoryBusiness, domain.LevelExpert))
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryEnvironment, got.Category)
	assert.Equal(t, []string{"Analysis", "Quick Read"}, got.Tags)
	assert.Equal(t, "CET-6", got.RecommendedExam)
	assert.InDelta(t, 42.5, got.DifficultyScore, 1e-9)
	assert.Nil(t, got.PublishDate)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteQueryFilters(t *testing.T) {
	t.Parallel()

	store := openMemoryStore(t)
	ctx := context.Background()

	fixtures := []domain.ArticleRecord{
		record("https://example.com/1", domain.CategoryTechnology, domain.LevelBeginner),
		record("https://example.com/2", domain.CategoryTechnology, domain.LevelAdvanced),
		record("https://example.com/3", domain.CategorySports, domain.LevelAdvanced),
	}
	for _, r := range fixtures {
		_, _, err := store.Add(ctx, r)
		require.NoError(t, err)
	}

	all, err := store.Query(ctx, domain.ArticleFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "https://example.com/3", all[0].URL)

	tech, err := store.Query(ctx, domain.ArticleFilter{Category: domain.CategoryTechnology}, 10)
	require.NoError(t, err)
	assert.Len(t, tech, 2)

	both, err := store.Query(ctx, domain.ArticleFilter{Category: domain.CategoryTechnology, Difficulty: domain.LevelAdvanced}, 10)
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "https://example.com/2", both[0].URL)

	limited, err := store.Query(ctx, domain.ArticleFilter{}, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteSearchAndHistogram(t *testing.T) {
	t.Parallel()

	store := openMemoryStore(t)
	ctx := context.Background()

	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	withDate := record("https://example.com/dated", domain.CategoryHealth, domain.LevelAdvanced)
	withDate.PublishDate = &published
	withDate.Title = "Sleep and memory"
	withDate.Content = "Sleep consolidates memory."
	withDate.Summary = ""

	for _, r := range []domain.ArticleRecord{
		record("https://example.com/x", domain.CategoryEnvironment, domain.LevelAdvanced),
		record("https://example.com/y", domain.CategoryEnvironment, domain.LevelBeginner),
		withDate,
	} {
		_, _, err := store.Add(ctx, r)
		require.NoError(t, err)
	}

	hits, err := store.Search(ctx, "SOLAR", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = store.Search(ctx, "memory", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.NotNil(t, hits[0].PublishDate)
	assert.True(t, published.Equal(*hits[0].PublishDate))

	histogram, err := store.DifficultyHistogram(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.LevelCount{
		{Level: domain.LevelAdvanced, Count: 2},
		{Level: domain.LevelBeginner, Count: 1},
	}, histogram)
}

func TestSQLiteCategoriesSeededOnce(t *testing.T) {
	t.Parallel()

	store := openMemoryStore(t)
	ctx := context.Background()

	// a second migration must not duplicate the seed
	require.NoError(t, store.Migrate(ctx))

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, len(domain.Catalog()))
	assert.Equal(t, domain.CategoryTechnology, categories[0].Name)
	assert.Equal(t, domain.CategorySports, categories[len(categories)-1].Name)
}

func TestSQLiteGetMissing(t *testing.T) {
	t.Parallel()

	_, err := openMemoryStore(t).Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestPostgresAdd(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		setupMock    func(mock sqlmock.Sqlmock)
		wantID       int64
		wantInserted bool
		wantErr      bool
	}{
		{
			name: "inserts new article",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO articles .* VALUES \(\$1,\$2,.*ON CONFLICT \(url\) DO NOTHING RETURNING id`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			},
			wantID:       7,
			wantInserted: true,
		},
		{
			name: "reports duplicate url",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO articles").
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
		},
		{
			name: "returns driver error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO articles").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tc.setupMock(mock)
			store := NewSQLStore(sqlx.NewDb(db, "postgres"), DialectPostgres)

			id, inserted, err := store.Add(context.Background(), record("https://example.com/pg", domain.CategoryPolitics, domain.LevelExpert))
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, sql.ErrConnDone))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantID, id)
			assert.Equal(t, tc.wantInserted, inserted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresSearchUsesILike(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM articles WHERE \(title ILIKE \$1 OR content ILIKE \$2 OR summary ILIKE \$3\)`).
		WithArgs("%brexit%", "%brexit%", "%brexit%").
		WillReturnRows(sqlmock.NewRows(articleColumns))

	store := NewSQLStore(sqlx.NewDb(db, "postgres"), DialectPostgres)
	hits, err := store.Search(context.Background(), "brexit", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
