package entity

import "time"

// PageFailure is the operator-facing view of a failed page.
type PageFailure struct {
	PageIndex int    `json:"page_index"`
	URL       string `json:"url"`
	Reason    string `json:"reason"`
}

// RunSummary aggregates the outcomes of every page task in one ingestion run.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Pages      int           `json:"pages"`
	Succeeded  int           `json:"succeeded"`
	Empty      int           `json:"empty"`
	Failed     int           `json:"failed"`
	Persisted  int           `json:"persisted"`
	Failures   []PageFailure `json:"failures,omitempty"`
}

// Add folds one page outcome into the summary.
func (s *RunSummary) Add(o PageOutcome) {
	s.Pages++
	switch o.Status {
	case PageSucceeded:
		s.Succeeded++
		s.Persisted += o.Records
	case PageEmpty:
		s.Empty++
	default:
		s.Failed++
		reason := "unknown error"
		if o.Err != nil {
			reason = o.Err.Error()
		}
		s.Failures = append(s.Failures, PageFailure{
			PageIndex: o.Task.Index,
			URL:       o.Task.URL,
			Reason:    reason,
		})
	}
}
