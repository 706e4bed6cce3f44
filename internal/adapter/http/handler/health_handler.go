package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/moneybook/internal/usecase"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	backend string
	checks  map[string]usecase.Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. checks maps a dependency name
// to its pinger; backends without a remote service pass none.
func NewHealthHandler(backend string, checks map[string]usecase.Pinger) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		checks:  checks,
		timeout: 5 * time.Second,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if every dependency answers a ping.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := map[string]string{
		"status":  "ready",
		"backend": h.backend,
	}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, name+" unhealthy", err.Error())
			return
		}
		resp[name] = "ok"
	}

	writeJSON(w, http.StatusOK, resp)
}
