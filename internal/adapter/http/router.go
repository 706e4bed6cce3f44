package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/moneybook/internal/adapter/http/handler"
	"github.com/iho/moneybook/internal/adapter/http/middleware"
	"github.com/iho/moneybook/internal/infrastructure/metrics"
	"github.com/iho/moneybook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Store  *usecase.TransactionStore
	Logger zerolog.Logger

	TransactionHandler *handler.TransactionHandler
	CategoryHandler    *handler.CategoryHandler
	FilterHandler      *handler.FilterHandler
	SummaryHandler     *handler.SummaryHandler
	ChartHandler       *handler.ChartHandler
	ConsistencyHandler *handler.ConsistencyHandler
	HealthHandler      *handler.HealthHandler

	// Optional
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyOpts  []middleware.IdempotencyOption
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.InjectStore(cfg.Store))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyOpts...)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", cfg.TransactionHandler.List)
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/filtered", cfg.TransactionHandler.Filtered)
			r.Get("/sorted", cfg.TransactionHandler.Sorted)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})

		r.Get("/categories", cfg.CategoryHandler.List)
		r.Put("/categories", cfg.CategoryHandler.Replace)

		r.Get("/filter", cfg.FilterHandler.Get)
		r.Put("/filter", cfg.FilterHandler.Set)
		r.Delete("/filter", cfg.FilterHandler.Clear)

		r.Get("/summary", cfg.SummaryHandler.Get)

		r.Get("/charts/monthly", cfg.ChartHandler.Monthly)
		r.Get("/charts/categories", cfg.ChartHandler.Categories)

		r.Get("/consistency", cfg.ConsistencyHandler.Check)
	})

	return r
}
