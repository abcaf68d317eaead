package usecase

import (
	"context"
	"fmt"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/repository"
	"github.com/SepDev7/shop-crawler/pkg/metrics"
)

// Persister writes one page's listings as a single atomic batch.
type Persister struct {
	repo    repository.ListingRepository
	metrics *metrics.Metrics
}

func NewPersister(repo repository.ListingRepository, m *metrics.Metrics) *Persister {
	return &Persister{repo: repo, metrics: m}
}

// Persist stores records and returns how many were written. An empty
// batch returns (0, nil) without touching storage.
func (p *Persister) Persist(ctx context.Context, records []entity.Listing) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	n, err := p.repo.InsertMany(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("persist %d listings: %w", len(records), err)
	}

	if p.metrics != nil {
		p.metrics.ListingsPersisted.Add(float64(n))
	}
	return n, nil
}
