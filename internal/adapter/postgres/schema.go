package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Column widths follow the shop's Car model, which reads these rows.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS listings (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		price VARCHAR(50) NOT NULL,
		image_url VARCHAR(200),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS failed_pages (
		id BIGSERIAL PRIMARY KEY,
		run_id UUID NOT NULL,
		page_index INT NOT NULL,
		url TEXT NOT NULL,
		failure_reason TEXT NOT NULL,
		failed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_failed_pages_run_id ON failed_pages(run_id);
`

// EnsureSchema creates the tables the ingestion core writes to.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
