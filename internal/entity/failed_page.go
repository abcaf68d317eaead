package entity

import "time"

// FailedPage mirrors the `failed_pages` PostgreSQL table schema.
type FailedPage struct {
	ID            int64
	RunID         string
	PageIndex     int
	URL           string
	FailureReason string
	FailedAt      time.Time
}
