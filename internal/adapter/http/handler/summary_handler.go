package handler

import (
	"net/http"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/usecase"
)

// SummaryHandler reports totals over the filtered view.
type SummaryHandler struct{}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler() *SummaryHandler {
	return &SummaryHandler{}
}

// Get handles GET /summary.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	store := usecase.StoreFromContext(r.Context())

	txs := store.FilteredTransactions()
	totals := domain.ComputeTotals(txs)

	writeJSON(w, http.StatusOK, dto.SummaryResponse{
		TotalIncome:  totals.Income,
		TotalExpense: totals.Expense,
		Balance:      totals.Balance,
		Count:        len(txs),
		DateRange:    store.DateRange(),
	})
}
