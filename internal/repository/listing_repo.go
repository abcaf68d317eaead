package repository

import (
	"context"

	"github.com/SepDev7/shop-crawler/internal/entity"
)

// ListingRepository defines the interface for storing normalized listings.
type ListingRepository interface {
	// InsertMany stores all listings as one atomic unit: either every row is committed or none is.
	InsertMany(ctx context.Context, listings []entity.Listing) (int, error)
}
