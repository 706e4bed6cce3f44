package handler

import (
	"net/http"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/usecase"
	"github.com/iho/moneybook/internal/validation"
)

// FilterHandler handles the active date range filter.
type FilterHandler struct {
	validator *validation.Validator
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(v *validation.Validator) *FilterHandler {
	return &FilterHandler{validator: v}
}

// Get handles GET /filter.
func (h *FilterHandler) Get(w http.ResponseWriter, r *http.Request) {
	store := usecase.StoreFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.FilterResponse{DateRange: store.DateRange()})
}

// Set handles PUT /filter.
func (h *FilterHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.DateRangeRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	dr, err := req.ToDomain()
	if err != nil {
		writeDomainError(w, r, "invalid date range", err)
		return
	}

	store := usecase.StoreFromContext(r.Context())
	if err := store.SetDateRangeFilter(dr); err != nil {
		writeDomainError(w, r, "invalid date range", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FilterResponse{DateRange: store.DateRange()})
}

// Clear handles DELETE /filter.
func (h *FilterHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store := usecase.StoreFromContext(r.Context())
	if err := store.SetDateRangeFilter(nil); err != nil {
		writeDomainError(w, r, "failed to clear filter", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
