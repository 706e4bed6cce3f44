package handler

import (
	"net/http"

	"github.com/iho/moneybook/internal/usecase"
)

// ConsistencyHandler exposes the store consistency check.
type ConsistencyHandler struct{}

// NewConsistencyHandler creates a new ConsistencyHandler.
func NewConsistencyHandler() *ConsistencyHandler {
	return &ConsistencyHandler{}
}

// Check handles GET /consistency.
func (h *ConsistencyHandler) Check(w http.ResponseWriter, r *http.Request) {
	store := usecase.StoreFromContext(r.Context())

	report, err := store.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, r, "consistency check failed", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
