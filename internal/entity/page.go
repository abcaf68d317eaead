package entity

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// PageTask is one paginated search result page to fetch.
type PageTask struct {
	Index int
	URL   string
}

// SourceConfig describes the upstream search endpoint and the page range to walk.
type SourceConfig struct {
	BaseURL     string
	SearchParam string
	SearchTerm  string
	PageParam   string
	PageStart   int // inclusive
	PageEnd     int // exclusive
}

// BuildPageTasks enumerates the tasks for [PageStart, PageEnd).
func BuildPageTasks(src SourceConfig) ([]PageTask, error) {
	if src.PageStart < 1 {
		return nil, fmt.Errorf("page start must be >= 1, got %d", src.PageStart)
	}
	base, err := url.Parse(src.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source base URL %q: %w", src.BaseURL, err)
	}

	// Query order is search term first, page index last, as the upstream documents it.
	prefix := base.RawQuery
	if src.SearchParam != "" {
		prefix = joinQuery(prefix, url.QueryEscape(src.SearchParam)+"="+url.QueryEscape(src.SearchTerm))
	}
	pageKey := url.QueryEscape(src.PageParam) + "="

	tasks := make([]PageTask, 0, max(src.PageEnd-src.PageStart, 0))
	for i := src.PageStart; i < src.PageEnd; i++ {
		u := *base
		u.RawQuery = joinQuery(prefix, pageKey+strconv.Itoa(i))
		tasks = append(tasks, PageTask{Index: i, URL: u.String()})
	}
	return tasks, nil
}

func joinQuery(query, pair string) string {
	if query == "" {
		return pair
	}
	return query + "&" + pair
}

// PageStatus is the tagged outcome of a single page task.
type PageStatus string

const (
	PageSucceeded PageStatus = "success"
	PageEmpty     PageStatus = "empty"
	PageFailed    PageStatus = "failed"
)

// PageOutcome is what a page task reports back to the scheduler.
type PageOutcome struct {
	Task     PageTask
	Status   PageStatus
	Records  int // listings persisted for this page
	Err      error
	Duration time.Duration
}
