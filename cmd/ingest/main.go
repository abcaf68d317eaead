package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SepDev7/shop-crawler/internal/app"
	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/SepDev7/shop-crawler/internal/usecase"
	"github.com/SepDev7/shop-crawler/pkg/config"
	"github.com/SepDev7/shop-crawler/pkg/logger"
	"github.com/SepDev7/shop-crawler/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("could not load config: %v", err)
		return 2
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Printf("could not build logger: %v", err)
		return 2
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, metrics.New(prometheus.NewRegistry()), zl)
	if err != nil {
		zl.Error("failed to initialise application", zap.Error(err))
		return 1
	}
	defer a.Close()

	summary, err := a.Ingestor.Run(ctx, uuid.NewString())
	if err != nil {
		if errors.Is(err, usecase.ErrRunInProgress) {
			zl.Warn("another ingestion run holds the lock")
			return 1
		}
		zl.Error("ingestion run failed", zap.Error(err))
		if summary == nil {
			return 1
		}
	}

	printSummary(summary)
	if summary.Failed > 0 || err != nil {
		return 1
	}
	return 0
}

func printSummary(s *entity.RunSummary) {
	fmt.Printf("run %s finished in %s\n", s.RunID, s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	fmt.Printf("pages: %d  succeeded: %d  empty: %d  failed: %d  listings persisted: %d\n",
		s.Pages, s.Succeeded, s.Empty, s.Failed, s.Persisted)
	for _, f := range s.Failures {
		fmt.Printf("  page %d (%s): %s\n", f.PageIndex, f.URL, f.Reason)
	}
}
