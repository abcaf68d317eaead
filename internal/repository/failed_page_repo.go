package repository

import (
	"context"

	"github.com/SepDev7/shop-crawler/internal/entity"
)

// FailedPageRepository records pages that failed during a run so operators can inspect them.
type FailedPageRepository interface {
	Save(ctx context.Context, page *entity.FailedPage) error
	// FindByRun returns the failed pages recorded for a run, ordered by page index.
	FindByRun(ctx context.Context, runID string) ([]*entity.FailedPage, error)
}
