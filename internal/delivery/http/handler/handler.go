package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SepDev7/shop-crawler/internal/delivery/http/response"
	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/usecase"
	"go.uber.org/zap"
)

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	runManager usecase.RunManager
	checks     map[string]HealthCheck
	logger     *zap.Logger
}

func NewHandler(runManager usecase.RunManager, checks map[string]HealthCheck, logger *zap.Logger) *Handler {
	return &Handler{
		runManager: runManager,
		checks:     checks,
		logger:     logger,
	}
}

func (h *Handler) HandleTriggerRun(w http.ResponseWriter, r *http.Request) {
	runID, err := h.runManager.Trigger(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrRunInProgress) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.Error("Failed to trigger ingestion run", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.TriggerRunResponse{
		Status:  "accepted",
		Message: "Ingestion run started",
		RunID:   runID,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleLatestRun(w http.ResponseWriter, r *http.Request) {
	summary, err := h.runManager.Latest(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNoRuns) {
			h.writeJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load latest run", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok", Dependencies: make(map[string]string, len(h.checks))}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Error("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Dependencies[name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[name] = "healthy"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, resp)
}

func toSummaryResponse(s *entity.RunSummary) response.RunSummaryResponse {
	failures := make([]response.PageFailureResponse, 0, len(s.Failures))
	for _, f := range s.Failures {
		failures = append(failures, response.PageFailureResponse{
			PageIndex: f.PageIndex,
			URL:       f.URL,
			Reason:    f.Reason,
		})
	}
	return response.RunSummaryResponse{
		RunID:           s.RunID,
		StartedAt:       s.StartedAt,
		FinishedAt:      s.FinishedAt,
		DurationSeconds: s.FinishedAt.Sub(s.StartedAt).Seconds(),
		Pages:           s.Pages,
		Succeeded:       s.Succeeded,
		Empty:           s.Empty,
		Failed:          s.Failed,
		Persisted:       s.Persisted,
		Failures:        failures,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
