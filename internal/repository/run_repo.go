package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SepDev7/shop-crawler/internal/entity"
)

var (
	ErrNotFound = errors.New("not found")
)

// RunRepository keeps the state shared between ingestion runs: the latest summary and the run lock.
type RunRepository interface {
	// AcquireLock takes the run lock for owner. It reports false when another run holds it.
	AcquireLock(ctx context.Context, owner string, ttl time.Duration) (bool, error)
	// ReleaseLock releases the lock if owner still holds it.
	ReleaseLock(ctx context.Context, owner string) error
	// SaveLatest stores summary as the most recent run.
	SaveLatest(ctx context.Context, summary *entity.RunSummary) error
	// Latest returns the most recent run summary, or ErrNotFound.
	Latest(ctx context.Context) (*entity.RunSummary, error)
}
