package postgres

import (
	"context"
	"fmt"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var listingColumns = []string{"title", "price", "image_url"}

// ListingRepoImpl provides a concrete implementation for the ListingRepository interface using PostgreSQL.
type ListingRepoImpl struct {
	db *pgxpool.Pool
}

// NewListingRepo creates a new instance of ListingRepoImpl.
func NewListingRepo(db *pgxpool.Pool) *ListingRepoImpl {
	return &ListingRepoImpl{db: db}
}

// InsertMany copies all listings into the listings table inside one transaction.
// A failure on any row rolls the whole batch back.
func (r *ListingRepoImpl) InsertMany(ctx context.Context, listings []entity.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]any, len(listings))
	for i, l := range listings {
		rows[i] = []any{l.Title, l.Price, l.ImageURL}
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"listings"}, listingColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy %d listings: %w", len(listings), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit listings: %w", err)
	}
	return int(copied), nil
}

