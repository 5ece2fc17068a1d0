package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_watchlist/internal/feature/watchlist/domain/entity"
	"stock_watchlist/internal/feature/watchlist/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	// :memory: は接続ごとに別DBになるため1接続に固定する
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&WatchlistItemModel{}), "failed to migrate table")
	return db
}

func addEntry(t *testing.T, repo *watchlistGorm, userID uint, symbol string, addedAt time.Time) entity.WatchlistEntry {
	t.Helper()
	e := entity.WatchlistEntry{UserID: userID, Symbol: symbol, CompanyName: symbol + " Inc", AddedAt: addedAt}
	require.NoError(t, repo.Create(context.Background(), &e))
	return e
}

func TestWatchlistGorm_Create(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("assigns id", func(t *testing.T) {
		repo := NewWatchlistGorm(setupTestDB(t))

		e := addEntry(t, repo, 1, "AAPL", base)
		assert.NotZero(t, e.ID)
	})

	t.Run("duplicate symbol for same user", func(t *testing.T) {
		repo := NewWatchlistGorm(setupTestDB(t))
		addEntry(t, repo, 1, "AAPL", base)

		dup := entity.WatchlistEntry{UserID: 1, Symbol: "AAPL", AddedAt: base}
		err := repo.Create(context.Background(), &dup)

		assert.ErrorIs(t, err, usecase.ErrAlreadyInWatchlist)
	})

	t.Run("same symbol for different users", func(t *testing.T) {
		repo := NewWatchlistGorm(setupTestDB(t))
		addEntry(t, repo, 1, "AAPL", base)

		other := entity.WatchlistEntry{UserID: 2, Symbol: "AAPL", AddedAt: base}
		assert.NoError(t, repo.Create(context.Background(), &other))
	})
}

func TestWatchlistGorm_ListByUser(t *testing.T) {
	repo := NewWatchlistGorm(setupTestDB(t))
	base := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	addEntry(t, repo, 1, "AAPL", base)
	addEntry(t, repo, 1, "MSFT", base.Add(2*time.Hour))
	addEntry(t, repo, 1, "GOOG", base.Add(time.Hour))
	addEntry(t, repo, 2, "TSLA", base.Add(3*time.Hour))

	got, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "MSFT", got[0].Symbol)
	assert.Equal(t, "GOOG", got[1].Symbol)
	assert.Equal(t, "AAPL", got[2].Symbol)
	assert.Equal(t, "AAPL Inc", got[2].CompanyName)
	assert.True(t, base.Equal(got[2].AddedAt))

	empty, err := repo.ListByUser(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestWatchlistGorm_ExistsAndCount(t *testing.T) {
	repo := NewWatchlistGorm(setupTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	addEntry(t, repo, 1, "AAPL", now)
	addEntry(t, repo, 1, "MSFT", now)

	ok, err := repo.Exists(ctx, 1, "AAPL")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, 2, "AAPL")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.Count(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWatchlistGorm_Delete(t *testing.T) {
	repo := NewWatchlistGorm(setupTestDB(t))
	ctx := context.Background()

	addEntry(t, repo, 1, "AAPL", time.Now().UTC())
	addEntry(t, repo, 2, "AAPL", time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, 1, "AAPL"))

	ok, err := repo.Exists(ctx, 1, "AAPL")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Exists(ctx, 2, "AAPL")
	require.NoError(t, err)
	assert.True(t, ok, "other users' rows must be untouched")

	assert.ErrorIs(t, repo.Delete(ctx, 1, "AAPL"), usecase.ErrNotInWatchlist)
}

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"mysql 1062", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1045, Message: "Access denied"}, false},
		{"postgres 23505", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, isDuplicateKey(tt.err))
		})
	}
}
