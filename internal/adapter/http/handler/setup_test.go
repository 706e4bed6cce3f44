package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/iho/moneybook/internal/adapter/repository/memory"
	"github.com/iho/moneybook/internal/usecase"
	"github.com/iho/moneybook/internal/validation"
)

type counterIDs struct{ n int }

func (g *counterIDs) Generate() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newTestStore(t *testing.T) *usecase.TransactionStore {
	t.Helper()
	return usecase.NewTransactionStore(context.Background(), usecase.StoreConfig{
		Slots:    memory.NewSlotStore(),
		IDGen:    &counterIDs{},
		Validate: true,
	})
}

// newTestRouter mounts the handlers the way the API router does, minus the
// cross-cutting middleware.
func newTestRouter(store *usecase.TransactionStore, now time.Time) http.Handler {
	v := validation.New()
	txs := NewTransactionHandler(v)
	cats := NewCategoryHandler(v)
	filter := NewFilterHandler(v)
	charts := NewChartHandler()
	charts.now = func() time.Time { return now }

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(usecase.WithStore(req.Context(), store)))
		})
	})

	r.Get("/transactions", txs.List)
	r.Get("/transactions/filtered", txs.Filtered)
	r.Get("/transactions/sorted", txs.Sorted)
	r.Post("/transactions", txs.Create)
	r.Put("/transactions/{id}", txs.Update)
	r.Delete("/transactions/{id}", txs.Delete)
	r.Get("/categories", cats.List)
	r.Put("/categories", cats.Replace)
	r.Get("/filter", filter.Get)
	r.Put("/filter", filter.Set)
	r.Delete("/filter", filter.Clear)
	r.Get("/summary", NewSummaryHandler().Get)
	r.Get("/charts/monthly", charts.Monthly)
	r.Get("/charts/categories", charts.Categories)
	r.Get("/consistency", NewConsistencyHandler().Check)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func txBody(date, typ, amount, category string) map[string]any {
	return map[string]any{
		"date":        date,
		"description": category + " on " + date,
		"amount":      amount,
		"type":        typ,
		"categoryId":  category,
	}
}
