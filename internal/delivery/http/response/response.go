package response

import "time"

type TriggerRunResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

type PageFailureResponse struct {
	PageIndex int    `json:"page_index"`
	URL       string `json:"url"`
	Reason    string `json:"reason"`
}

// RunSummaryResponse is a DTO for a finished run, mirroring entity.RunSummary
type RunSummaryResponse struct {
	RunID           string                `json:"run_id"`
	StartedAt       time.Time             `json:"started_at"`
	FinishedAt      time.Time             `json:"finished_at"`
	DurationSeconds float64               `json:"duration_seconds"`
	Pages           int                   `json:"pages"`
	Succeeded       int                   `json:"succeeded"`
	Empty           int                   `json:"empty"`
	Failed          int                   `json:"failed"`
	Persisted       int                   `json:"persisted"`
	Failures        []PageFailureResponse `json:"failures"`
}

type HealthResponse struct {
	Status       string            `json:"status"` // "ok" or "degraded"
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
