package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to TEST_POSTGRES_URL and starts from empty tables.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE listings, failed_pages`)
	require.NoError(t, err)
	return pool
}

func countListings(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var n int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n)
	return n, err
}

func TestNewPool_RequiresURL(t *testing.T) {
	_, err := NewPool(context.Background(), "", 1)
	require.Error(t, err)
}

func TestListingRepo_InsertMany(t *testing.T) {
	pool := newTestPool(t)
	repo := NewListingRepo(pool)
	ctx := context.Background()

	n, err := repo.InsertMany(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	listings := []entity.Listing{
		{Title: "Pride 131", Price: "250,000,000", ImageURL: "https://img.example.test/1.jpg"},
		{Title: "Pride 111", Price: "230,000,000", ImageURL: "https://img.example.test/2.jpg"},
		{Title: "Pride 131", Price: "250,000,000", ImageURL: "https://img.example.test/1.jpg"},
	}
	n, err = repo.InsertMany(ctx, listings)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := countListings(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "duplicates are stored as separate rows")
}

func TestListingRepo_InsertManyIsAtomic(t *testing.T) {
	pool := newTestPool(t)
	repo := NewListingRepo(pool)
	ctx := context.Background()

	listings := []entity.Listing{
		{Title: "Pride 131", Price: "1", ImageURL: "https://img.example.test/1.jpg"},
		{Title: strings.Repeat("x", 256), Price: "2", ImageURL: "https://img.example.test/2.jpg"},
		{Title: "Pride 111", Price: "3", ImageURL: "https://img.example.test/3.jpg"},
	}
	_, err := repo.InsertMany(ctx, listings)
	require.Error(t, err)

	count, err := countListings(ctx, pool)
	require.NoError(t, err)
	assert.Zero(t, count, "a failed batch must leave no rows behind")
}

func TestFailedPageRepo_SaveAndFind(t *testing.T) {
	pool := newTestPool(t)
	repo := NewFailedPageRepo(pool)
	ctx := context.Background()

	runID := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)
	for _, idx := range []int{7, 2} {
		require.NoError(t, repo.Save(ctx, &entity.FailedPage{
			RunID:         runID,
			PageIndex:     idx,
			URL:           "https://example.test/search",
			FailureReason: "upstream returned 503",
			FailedAt:      now,
		}))
	}
	require.NoError(t, repo.Save(ctx, &entity.FailedPage{
		RunID: uuid.NewString(), PageIndex: 1, URL: "u", FailureReason: "other run", FailedAt: now,
	}))

	pages, err := repo.FindByRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, pages[0].PageIndex)
	assert.Equal(t, 7, pages[1].PageIndex)
	assert.Equal(t, runID, pages[0].RunID)
	assert.Equal(t, "upstream returned 503", pages[0].FailureReason)
}
