package repository

import (
	"context"
	"errors"

	"github.com/SepDev7/shop-crawler/internal/entity"
)

var (
	// ErrUnexpectedStatus is returned by fetchers when the upstream answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
)

// FetcherRepository defines the contract for retrieving one upstream page.
type FetcherRepository interface {
	// Fetch issues a GET for url and returns the raw response.
	Fetch(ctx context.Context, url string) (*entity.RawResponse, error)
}
