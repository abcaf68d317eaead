package postgres

import (
	"context"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FailedPageRepoImpl provides a concrete implementation for the FailedPageRepository interface using PostgreSQL.
type FailedPageRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailedPageRepo creates a new instance of FailedPageRepoImpl.
func NewFailedPageRepo(db *pgxpool.Pool) *FailedPageRepoImpl {
	return &FailedPageRepoImpl{db: db}
}

// Save records one failed page of a run.
func (r *FailedPageRepoImpl) Save(ctx context.Context, page *entity.FailedPage) error {
	query := `
		INSERT INTO failed_pages (run_id, page_index, url, failure_reason, failed_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.db.Exec(ctx, query,
		page.RunID,
		page.PageIndex,
		page.URL,
		page.FailureReason,
		page.FailedAt,
	)
	return err
}

// FindByRun retrieves the failed pages of a run, ordered by page index.
func (r *FailedPageRepoImpl) FindByRun(ctx context.Context, runID string) ([]*entity.FailedPage, error) {
	query := `
		SELECT id, run_id::text, page_index, url, failure_reason, failed_at
		FROM failed_pages
		WHERE run_id = $1
		ORDER BY page_index ASC;
	`
	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*entity.FailedPage
	for rows.Next() {
		var fp entity.FailedPage
		if err := rows.Scan(
			&fp.ID,
			&fp.RunID,
			&fp.PageIndex,
			&fp.URL,
			&fp.FailureReason,
			&fp.FailedAt,
		); err != nil {
			return nil, err
		}
		pages = append(pages, &fp)
	}

	return pages, rows.Err()
}
