package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/extractor"
	"github.com/SepDev7/shop-crawler/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrRunInProgress = errors.New("an ingestion run is already in progress")
)

// Ingestor defines the interface for one full ingestion run.
type Ingestor interface {
	// Acquire takes the run lock for runID, or fails with ErrRunInProgress.
	// The returned func releases it.
	Acquire(ctx context.Context, runID string) (release func(), err error)
	// Ingest walks every configured page under runID and returns the summary.
	// The caller must hold the run lock.
	Ingest(ctx context.Context, runID string) (*entity.RunSummary, error)
	// Run is Acquire, Ingest and release in one call.
	Run(ctx context.Context, runID string) (*entity.RunSummary, error)
}

// IngestOptions carries the run settings that come from configuration.
type IngestOptions struct {
	Source         entity.SourceConfig
	RequestTimeout time.Duration
	LockTTL        time.Duration
}

type ingestUseCase struct {
	fetcher     repository.FetcherRepository
	decoder     *extractor.Decoder
	persister   *Persister
	scheduler   *Scheduler
	failedPages repository.FailedPageRepository
	runs        repository.RunRepository
	opts        IngestOptions
	logger      *zap.Logger
}

// NewIngestUseCase creates a new instance of the ingestion use case.
func NewIngestUseCase(
	fetcher repository.FetcherRepository,
	decoder *extractor.Decoder,
	persister *Persister,
	scheduler *Scheduler,
	failedPages repository.FailedPageRepository,
	runs repository.RunRepository,
	opts IngestOptions,
	logger *zap.Logger,
) Ingestor {
	return &ingestUseCase{
		fetcher:     fetcher,
		decoder:     decoder,
		persister:   persister,
		scheduler:   scheduler,
		failedPages: failedPages,
		runs:        runs,
		opts:        opts,
		logger:      logger,
	}
}

func (uc *ingestUseCase) Acquire(ctx context.Context, runID string) (func(), error) {
	locked, err := uc.runs.AcquireLock(ctx, runID, uc.opts.LockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrRunInProgress
	}

	// The lock must be released even when ctx was cancelled mid-run.
	bgCtx := context.WithoutCancel(ctx)
	return func() {
		if err := uc.runs.ReleaseLock(bgCtx, runID); err != nil {
			uc.logger.Error("Failed to release run lock", zap.String("run_id", runID), zap.Error(err))
		}
	}, nil
}

func (uc *ingestUseCase) Run(ctx context.Context, runID string) (*entity.RunSummary, error) {
	release, err := uc.Acquire(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer release()

	return uc.Ingest(ctx, runID)
}

func (uc *ingestUseCase) Ingest(ctx context.Context, runID string) (*entity.RunSummary, error) {
	tasks, err := entity.BuildPageTasks(uc.opts.Source)
	if err != nil {
		return nil, fmt.Errorf("build page tasks: %w", err)
	}

	uc.logger.Info("Ingestion run started", zap.String("run_id", runID), zap.Int("pages", len(tasks)))

	summary := uc.scheduler.Run(ctx, tasks, uc.processPage)
	summary.RunID = runID

	// Failures and the summary are written even when ctx was cancelled mid-run.
	bgCtx := context.WithoutCancel(ctx)
	for _, f := range summary.Failures {
		uc.recordFailure(bgCtx, runID, f)
	}

	uc.logger.Info("Ingestion run finished",
		zap.String("run_id", runID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("empty", summary.Empty),
		zap.Int("failed", summary.Failed),
		zap.Int("persisted", summary.Persisted),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	if err := uc.runs.SaveLatest(bgCtx, &summary); err != nil {
		return &summary, fmt.Errorf("save run summary: %w", err)
	}
	return &summary, nil
}

// processPage is the per-page pipeline: fetch, decode, normalize, persist.
func (uc *ingestUseCase) processPage(ctx context.Context, task entity.PageTask) entity.PageOutcome {
	fetchCtx, cancel := context.WithTimeout(ctx, uc.opts.RequestTimeout)
	defer cancel()

	resp, err := uc.fetcher.Fetch(fetchCtx, task.URL)
	if err != nil {
		return entity.PageOutcome{Status: entity.PageFailed, Err: fmt.Errorf("fetch: %w", err)}
	}

	payload, err := uc.decoder.Decode(resp)
	if err != nil {
		return entity.PageOutcome{Status: entity.PageFailed, Err: err}
	}

	records := extractor.Normalize(payload)
	if len(records) == 0 {
		return entity.PageOutcome{Status: entity.PageEmpty}
	}

	n, err := uc.persister.Persist(ctx, records)
	if err != nil {
		return entity.PageOutcome{Status: entity.PageFailed, Err: err}
	}
	return entity.PageOutcome{Status: entity.PageSucceeded, Records: n}
}

func (uc *ingestUseCase) recordFailure(ctx context.Context, runID string, f entity.PageFailure) {
	page := &entity.FailedPage{
		RunID:         runID,
		PageIndex:     f.PageIndex,
		URL:           f.URL,
		FailureReason: f.Reason,
		FailedAt:      time.Now().UTC(),
	}
	if err := uc.failedPages.Save(ctx, page); err != nil {
		// Not critical, the failure is still in the run summary.
		uc.logger.Warn("Failed to record failed page", zap.Int("page", f.PageIndex), zap.Error(err))
	}
}
