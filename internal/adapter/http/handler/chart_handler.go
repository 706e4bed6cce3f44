package handler

import (
	"net/http"
	"time"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/usecase"
)

const maxChartMonths = 120

// ChartHandler serves chart series derived from the filtered view.
type ChartHandler struct {
	now func() time.Time
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler() *ChartHandler {
	return &ChartHandler{now: time.Now}
}

// Monthly handles GET /charts/monthly. With ?months=N the series covers the
// last N months up to the current one, zero-filled.
func (h *ChartHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	store := usecase.StoreFromContext(r.Context())
	totals := store.MonthlyTotals()

	if n := parseIntQuery(r, "months", 0); n > 0 {
		if n > maxChartMonths {
			n = maxChartMonths
		}
		totals = domain.FillMonths(totals, domain.MonthRange(n, h.now()))
	}

	writeJSON(w, http.StatusOK, dto.MonthlyChartResponse{Months: totals})
}

// Categories handles GET /charts/categories?type=expense[&drop_unknown=true].
func (h *ChartHandler) Categories(w http.ResponseWriter, r *http.Request) {
	typ := domain.TransactionTypeExpense
	if v := r.URL.Query().Get("type"); v != "" {
		typ = domain.TransactionType(v)
	}
	if !typ.Valid() {
		writeError(w, http.StatusBadRequest, "invalid type", domain.ErrInvalidTransactionType.Error())
		return
	}

	var opts []domain.CategoryTotalsOption
	if parseBoolQuery(r, "drop_unknown", false) {
		opts = append(opts, domain.WithoutUncategorized())
	}

	store := usecase.StoreFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.CategoryChartResponse{
		Type:       typ,
		Categories: store.CategoryTotals(typ, opts...),
	})
}
