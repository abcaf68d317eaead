package app

import (
	"context"
	"fmt"

	"github.com/SepDev7/shop-crawler/internal/adapter/chromedp_fetcher"
	"github.com/SepDev7/shop-crawler/internal/adapter/colly_fetcher"
	"github.com/SepDev7/shop-crawler/internal/adapter/postgres"
	redis_adapter "github.com/SepDev7/shop-crawler/internal/adapter/redis"
	"github.com/SepDev7/shop-crawler/internal/extractor"
	"github.com/SepDev7/shop-crawler/internal/proxy"
	"github.com/SepDev7/shop-crawler/internal/repository"
	"github.com/SepDev7/shop-crawler/internal/usecase"
	"github.com/SepDev7/shop-crawler/pkg/config"
	"github.com/SepDev7/shop-crawler/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired ingestion core shared by both binaries.
type App struct {
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Runs     repository.RunRepository
	Ingestor usecase.Ingestor

	closers []func()
}

// New connects to storage and wires fetcher, decoder, scheduler and persister.
func New(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*App, error) {
	a := &App{}

	db, err := postgres.NewPool(ctx, cfg.PostgresURL, cfg.PostgresMaxConns)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)
	logger.Info("PostgreSQL connection pool established")

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		a.Close()
		return nil, err
	}

	rdb, err := redis_adapter.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Redis = rdb
	a.closers = append(a.closers, func() { rdb.Close() })
	logger.Info("Redis connection established")

	fetcher, err := a.newFetcher(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Runs = redis_adapter.NewRunRepo(rdb)
	a.Ingestor = usecase.NewIngestUseCase(
		fetcher,
		extractor.NewDecoder(logger),
		usecase.NewPersister(postgres.NewListingRepo(db), m),
		usecase.NewScheduler(cfg.MaxConcurrency, m, logger),
		postgres.NewFailedPageRepo(db),
		a.Runs,
		usecase.IngestOptions{
			Source:         cfg.Source(),
			RequestTimeout: cfg.RequestTimeout(),
			LockTTL:        cfg.RunLockTTL(),
		},
		logger,
	)
	return a, nil
}

func (a *App) newFetcher(cfg *config.Config, logger *zap.Logger) (repository.FetcherRepository, error) {
	proxies := proxy.NewManager(cfg.Proxies(), nil)

	switch cfg.FetchMode {
	case config.FetchModeBrowser:
		f := chromedp_fetcher.NewChromedpFetcher(cfg.RequestTimeout(), proxies, logger)
		a.closers = append(a.closers, f.Close)
		return f, nil
	case config.FetchModeHTTP:
		return colly_fetcher.NewCollyFetcher(cfg.RequestTimeout(), proxies, logger)
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", cfg.FetchMode)
	}
}

// Close releases everything New opened, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
