package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/moneybook/internal/infrastructure/metrics"
)

// Metrics records request count, latency and in-flight requests.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			// Wrap response writer to capture status code
			wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			path := routePath(r)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// routePath prefers the matched chi pattern and falls back to normalizePath.
func routePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

const transactionsPrefix = "/api/v1/transactions/"

// normalizePath normalizes URL paths to avoid high cardinality.
// /api/v1/transactions/01ABC123 -> /api/v1/transactions/{id}
func normalizePath(path string) string {
	rest, ok := strings.CutPrefix(path, transactionsPrefix)
	if !ok || rest == "" {
		return path
	}

	id, suffix, _ := strings.Cut(rest, "/")
	switch id {
	case "filtered", "sorted":
		return path
	}
	if suffix != "" {
		suffix = "/" + suffix
	}
	return transactionsPrefix + "{id}" + suffix
}
