package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/hlog"

	"github.com/iho/moneybook/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
)

// cachedResponse is what gets stored under an idempotency key.
type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key on mutating requests.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	replays prometheus.Counter
}

// IdempotencyOption configures an IdempotencyMiddleware.
type IdempotencyOption func(*IdempotencyMiddleware)

// WithTTL sets how long responses are kept.
func WithTTL(ttl time.Duration) IdempotencyOption {
	return func(m *IdempotencyMiddleware) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithReplayCounter counts replayed responses.
func WithReplayCounter(c prometheus.Counter) IdempotencyOption {
	return func(m *IdempotencyMiddleware) {
		m.replays = c
	}
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, opts ...IdempotencyOption) *IdempotencyMiddleware {
	m := &IdempotencyMiddleware{store: store, ttl: usecase.IdempotencyKeyTTL}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		// The same key on another route is a different request.
		key = r.Method + ":" + r.URL.Path + ":" + key

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("idempotency check failed")
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			m.replay(w, r, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		defer func() {
			if p := recover(); p != nil {
				m.release(r, key)
				panic(p)
			}
		}()

		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			m.release(r, key)
			return
		}

		raw, err := json.Marshal(cachedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
		if err == nil {
			err = m.store.Update(r.Context(), key, raw, m.ttl)
		}
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

// release frees key so a retry runs the handler again.
func (m *IdempotencyMiddleware) release(r *http.Request, key string) {
	if err := m.store.Release(context.WithoutCancel(r.Context()), key); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to release idempotency key")
	}
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, r *http.Request, raw []byte) {
	var cached cachedResponse
	if raw == nil || string(raw) == usecase.IdempotencyPending || json.Unmarshal(raw, &cached) != nil {
		http.Error(w, "request with this idempotency key is still in progress", http.StatusConflict)
		return
	}

	if m.replays != nil {
		m.replays.Inc()
	}
	hlog.FromRequest(r).Debug().Msg("replaying idempotent response")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(cached.Status)
	w.Write(cached.Body)
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
