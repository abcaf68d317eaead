package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoRuns = errors.New("no ingestion run has completed yet")
)

// RunManager defines the interface for starting runs and reading their results.
type RunManager interface {
	// Trigger takes the run lock and starts a run in the background.
	// It fails with ErrRunInProgress when any instance is already running one.
	Trigger(ctx context.Context) (string, error)
	// Latest returns the summary of the most recently finished run.
	Latest(ctx context.Context) (*entity.RunSummary, error)
	// Wait blocks until the background run, if any, has returned.
	Wait()
}

type runManagerUseCase struct {
	// baseCtx outlives the HTTP request that triggers a run.
	baseCtx  context.Context
	ingestor Ingestor
	runs     repository.RunRepository
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// NewRunManager creates a RunManager whose runs are cancelled with baseCtx.
func NewRunManager(baseCtx context.Context, ingestor Ingestor, runs repository.RunRepository, logger *zap.Logger) RunManager {
	return &runManagerUseCase{
		baseCtx:  baseCtx,
		ingestor: ingestor,
		runs:     runs,
		logger:   logger,
	}
}

func (uc *runManagerUseCase) Trigger(ctx context.Context) (string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.running {
		return "", ErrRunInProgress
	}
	if err := uc.baseCtx.Err(); err != nil {
		return "", err
	}

	runID := uuid.NewString()
	release, err := uc.ingestor.Acquire(ctx, runID)
	if err != nil {
		return "", err
	}

	uc.running = true
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		defer func() {
			release()
			uc.mu.Lock()
			uc.running = false
			uc.mu.Unlock()
		}()

		if _, err := uc.ingestor.Ingest(uc.baseCtx, runID); err != nil {
			uc.logger.Error("Ingestion run failed", zap.String("run_id", runID), zap.Error(err))
		}
	}()
	return runID, nil
}

func (uc *runManagerUseCase) Latest(ctx context.Context) (*entity.RunSummary, error) {
	summary, err := uc.runs.Latest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoRuns
		}
		return nil, err
	}
	return summary, nil
}

func (uc *runManagerUseCase) Wait() {
	uc.wg.Wait()
}
