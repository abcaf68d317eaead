package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SepDev7/shop-crawler/internal/app"
	"github.com/SepDev7/shop-crawler/internal/delivery/http/handler"
	"github.com/SepDev7/shop-crawler/internal/delivery/http/router"
	"github.com/SepDev7/shop-crawler/internal/usecase"
	"github.com/SepDev7/shop-crawler/pkg/config"
	"github.com/SepDev7/shop-crawler/pkg/logger"
	"github.com/SepDev7/shop-crawler/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	// --- Logger ---
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer zl.Sync()

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage and ingestion core ---
	a, err := app.New(ctx, cfg, m, zl)
	if err != nil {
		zl.Fatal("failed to initialise application", zap.Error(err))
	}
	defer a.Close()

	// --- Use Cases ---
	runManager := usecase.NewRunManager(ctx, a.Ingestor, a.Runs, zl)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(runManager, map[string]handler.HealthCheck{
		"postgres": a.DB.Ping,
		"redis":    func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() },
	}, zl)
	httpRouter := router.New(apiHandler, m, prometheus.DefaultGatherer, zl)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("could not start server", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()
	zl.Info("server started", zap.String("port", cfg.ServerPort))

	<-ctx.Done()
	zl.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	// ctx is already cancelled, so a running ingestion winds down here.
	runManager.Wait()

	zl.Info("server exiting")
}
