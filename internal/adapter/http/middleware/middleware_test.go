package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/moneybook/internal/adapter/repository/memory"
	"github.com/iho/moneybook/internal/usecase"
)

func TestInjectStore(t *testing.T) {
	store := usecase.NewTransactionStore(context.Background(), usecase.StoreConfig{Slots: memory.NewSlotStore()})

	var got *usecase.TransactionStore
	InjectStore(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = usecase.StoreFromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Same(t, store, got)
}

func TestRecoveryLogsPanicsThroughRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	// A handler reached without the store middleware panics.
	h := Logging(logger)(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usecase.StoreFromContext(r.Context())
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "StoreFromContext called without a TransactionStore")
}

func TestLoggingWritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hlog.FromRequest(r).Info().Msg("inside")
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/missing", nil)
	req.RemoteAddr = "192.0.2.1:4000"
	h.ServeHTTP(rr, req)

	require.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inside, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inside))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, inside["request_id"], access["request_id"])
	assert.Equal(t, "warn", access["level"])
	assert.Equal(t, float64(http.StatusNotFound), access["status"])
	assert.Equal(t, "/api/v1/transactions/missing", access["path"])
	assert.Equal(t, "192.0.2.1:4000", access["remote_addr"])
}
