package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/moneybook/internal/adapter/http"
	"github.com/iho/moneybook/internal/adapter/http/handler"
	"github.com/iho/moneybook/internal/adapter/http/middleware"
	"github.com/iho/moneybook/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/moneybook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/moneybook/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/moneybook/internal/adapter/repository/sqlite"
	"github.com/iho/moneybook/internal/infrastructure/config"
	"github.com/iho/moneybook/internal/infrastructure/idgen"
	"github.com/iho/moneybook/internal/infrastructure/logger"
	"github.com/iho/moneybook/internal/infrastructure/metrics"
	"github.com/iho/moneybook/internal/infrastructure/postgres"
	"github.com/iho/moneybook/internal/infrastructure/redis"
	"github.com/iho/moneybook/internal/infrastructure/sqlite"
	"github.com/iho/moneybook/internal/infrastructure/watcher"
	"github.com/iho/moneybook/internal/usecase"
	"github.com/iho/moneybook/internal/validation"
)

func main() {
	config.LoadDotEnv(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// backend is the slot store selected by SLOT_BACKEND plus the optional
// capabilities it offers.
type backend struct {
	slots   usecase.SlotStore
	watch   usecase.SlotWatcher
	checks  map[string]usecase.Pinger
	redis   *goredis.Client
	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects the configured slot backend. A redis client is opened
// whenever REDIS_URL is set, since idempotency replay uses it too.
func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	b := &backend{checks: map[string]usecase.Pinger{}}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, redis.Options{
			URL:          cfg.RedisURL,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
			DialTimeout:  cfg.RedisDialTimeout,
		})
		if err != nil {
			return nil, err
		}
		b.redis = client
		b.closers = append(b.closers, func() { client.Close() })
		log.Info().Msg("connected to redis")
	}

	switch cfg.SlotBackend {
	case config.BackendMemory:
		b.slots = memory.NewSlotStore()

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { db.Close() })
		store := sqliteRepo.NewSlotStore(db)
		b.slots = store
		b.checks["sqlite"] = store
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite")

	case config.BackendPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			b.Close()
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		store := postgresRepo.NewSlotStore(pool, postgresRepo.NewRetrier(log), log)
		b.slots = store
		b.watch = store
		b.checks["postgres"] = store
		log.Info().Msg("connected to postgres")

	case config.BackendRedis:
		if b.redis == nil {
			return nil, errors.New("redis backend requires REDIS_URL")
		}
		store := redisRepo.NewSlotStore(b.redis, redisRepo.WithPrefix(cfg.RedisSlotPrefix))
		b.slots = store
		b.watch = store
		b.checks["redis"] = store

	default:
		b.Close()
		return nil, fmt.Errorf("unknown slot backend %q", cfg.SlotBackend)
	}

	return b, nil
}

// app is the store with everything serving it.
type app struct {
	store       *usecase.TransactionStore
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	metrics     *metrics.Metrics
}

// newApp assembles the store and the HTTP handler around b.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, b *backend, reg *prometheus.Registry) (*app, error) {
	gen, err := idgen.New(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)

	store := usecase.NewTransactionStore(ctx, usecase.StoreConfig{
		Slots:            b.slots,
		IDGen:            gen,
		Logger:           &log,
		Metrics:          m,
		TransactionsSlot: cfg.TransactionsSlot,
		CategoriesSlot:   cfg.CategoriesSlot,
		Validate:         cfg.StrictValidation,
	})

	v := validation.Default()
	routerCfg := httpAdapter.RouterConfig{
		Store:              store,
		Logger:             log,
		TransactionHandler: handler.NewTransactionHandler(v),
		CategoryHandler:    handler.NewCategoryHandler(v),
		FilterHandler:      handler.NewFilterHandler(v),
		SummaryHandler:     handler.NewSummaryHandler(),
		ChartHandler:       handler.NewChartHandler(),
		ConsistencyHandler: handler.NewConsistencyHandler(),
		HealthHandler:      handler.NewHealthHandler(cfg.SlotBackend, b.checks),
		Metrics:            m,
		Gatherer:           reg,
	}

	a := &app{store: store, metrics: m}
	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, middleware.WithHitCounter(m.RateLimitHits))
		routerCfg.RateLimiter = a.rateLimiter
	}

	if b.redis != nil {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(b.redis)
		routerCfg.IdempotencyOpts = []middleware.IdempotencyOption{
			middleware.WithTTL(cfg.IdempotencyTTL),
			middleware.WithReplayCounter(m.IdempotentReplays),
		}
	}

	a.handler = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(ctx, cfg, log, b, reg)
	if err != nil {
		return err
	}

	if a.rateLimiter != nil {
		go a.rateLimiter.RunCleanup(ctx, 10*time.Minute, time.Hour)
	}

	if cfg.WatchEnabled {
		w := watcher.New(watcher.Config{
			Store:    a.store,
			Source:   b.watch,
			Logger:   &log,
			Metrics:  a.metrics,
			Interval: cfg.WatchPollInterval,
		})
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("watcher stopped")
			}
		}()
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("backend", cfg.SlotBackend).
			Bool("strict_validation", cfg.StrictValidation).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
