package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/repository"
)

// fakeFetcher serves canned responses keyed by page URL.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]*entity.RawResponse
	errs      map[string]error
	calls     []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*entity.RawResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err := f.errs[url]; err != nil {
		return nil, err
	}
	if resp, ok := f.responses[url]; ok {
		return resp, nil
	}
	return nil, fmt.Errorf("%w: GET %s returned 404", repository.ErrUnexpectedStatus, url)
}

// memListingRepo commits a batch only if no entry in it is rejected.
type memListingRepo struct {
	mu      sync.Mutex
	rows    []entity.Listing
	calls   int
	rejectT string // a title that makes the whole batch fail
}

func (r *memListingRepo) InsertMany(ctx context.Context, listings []entity.Listing) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	staged := make([]entity.Listing, 0, len(listings))
	for _, l := range listings {
		if r.rejectT != "" && l.Title == r.rejectT {
			return 0, errors.New("value too long for type character varying(255)")
		}
		staged = append(staged, l)
	}
	r.rows = append(r.rows, staged...)
	return len(staged), nil
}

func (r *memListingRepo) snapshot() []entity.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Listing(nil), r.rows...)
}

type memFailedPageRepo struct {
	mu    sync.Mutex
	pages []*entity.FailedPage
	err   error
}

func (r *memFailedPageRepo) Save(ctx context.Context, page *entity.FailedPage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.pages = append(r.pages, page)
	return nil
}

func (r *memFailedPageRepo) FindByRun(ctx context.Context, runID string) ([]*entity.FailedPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.FailedPage
	for _, p := range r.pages {
		if p.RunID == runID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memRunRepo struct {
	mu     sync.Mutex
	owner  string
	latest *entity.RunSummary
}

func (r *memRunRepo) AcquireLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner != "" {
		return false, nil
	}
	r.owner = owner
	return true, nil
}

func (r *memRunRepo) ReleaseLock(ctx context.Context, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owner == owner {
		r.owner = ""
	}
	return nil
}

func (r *memRunRepo) SaveLatest(ctx context.Context, summary *entity.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *summary
	r.latest = &cp
	return nil
}

func (r *memRunRepo) Latest(ctx context.Context) (*entity.RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *r.latest
	return &cp, nil
}

func (r *memRunRepo) lockOwner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner
}
