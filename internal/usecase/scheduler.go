package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// PageHandler runs the full pipeline of one page and reports its outcome.
type PageHandler func(ctx context.Context, task entity.PageTask) entity.PageOutcome

// Scheduler runs page tasks concurrently, never more than limit at a time.
type Scheduler struct {
	limit   int64
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewScheduler creates a scheduler with the given concurrency cap. A limit below 1 is treated as 1.
func NewScheduler(limit int, m *metrics.Metrics, logger *zap.Logger) *Scheduler {
	if limit < 1 {
		limit = 1
	}
	return &Scheduler{limit: int64(limit), metrics: m, logger: logger}
}

// Run starts one goroutine per task and waits for all of them.
// A failing task never stops the others. The returned summary has
// StartedAt and FinishedAt set and its failures ordered by page index.
func (s *Scheduler) Run(ctx context.Context, tasks []entity.PageTask, handle PageHandler) entity.RunSummary {
	summary := entity.RunSummary{StartedAt: time.Now().UTC()}
	sem := semaphore.NewWeighted(s.limit)
	outcomes := make(chan entity.PageOutcome, len(tasks))

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task entity.PageTask) {
			defer wg.Done()
			outcomes <- s.runTask(ctx, sem, task, handle)
		}(task)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		summary.Add(o)
		s.observe(o)
	}

	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].PageIndex < summary.Failures[j].PageIndex
	})
	summary.FinishedAt = time.Now().UTC()
	return summary
}

func (s *Scheduler) runTask(ctx context.Context, sem *semaphore.Weighted, task entity.PageTask, handle PageHandler) (outcome entity.PageOutcome) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return entity.PageOutcome{Task: task, Status: entity.PageFailed, Err: fmt.Errorf("waiting for fetch slot: %w", err)}
	}
	defer sem.Release(1)

	if s.metrics != nil {
		s.metrics.PagesInFlight.Inc()
		defer s.metrics.PagesInFlight.Dec()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("page handler panicked", zap.Int("page", task.Index), zap.Any("panic", r))
			outcome = entity.PageOutcome{Task: task, Status: entity.PageFailed, Err: fmt.Errorf("page handler panicked: %v", r)}
		}
		outcome.Duration = time.Since(start)
	}()

	outcome = handle(ctx, task)
	outcome.Task = task
	return outcome
}

func (s *Scheduler) observe(o entity.PageOutcome) {
	if o.Status == entity.PageFailed {
		s.logger.Warn("page failed", zap.Int("page", o.Task.Index), zap.String("url", o.Task.URL), zap.Error(o.Err))
	} else {
		s.logger.Debug("page done",
			zap.Int("page", o.Task.Index),
			zap.String("status", string(o.Status)),
			zap.Int("records", o.Records),
			zap.Int64("duration_ms", o.Duration.Milliseconds()),
		)
	}

	if s.metrics == nil {
		return
	}
	s.metrics.PagesTotal.WithLabelValues(string(o.Status)).Inc()
	if o.Duration > 0 {
		s.metrics.PageDuration.Observe(o.Duration.Seconds())
	}
}
