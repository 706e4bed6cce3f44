package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/usecase"
	"github.com/iho/moneybook/internal/validation"
)

// TransactionHandler handles transaction HTTP requests. The store is taken
// from the request context.
type TransactionHandler struct {
	validator *validation.Validator
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(v *validation.Validator) *TransactionHandler {
	return &TransactionHandler{validator: v}
}

// List handles GET /transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	store := usecase.StoreFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(store.Transactions(), store.Categories()))
}

// Filtered handles GET /transactions/filtered.
func (h *TransactionHandler) Filtered(w http.ResponseWriter, r *http.Request) {
	store := usecase.StoreFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(store.FilteredTransactions(), store.Categories()))
}

// Sorted handles GET /transactions/sorted?field=&dir=.
func (h *TransactionHandler) Sorted(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field, dir, err := domain.ParseSort(q.Get("field"), q.Get("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sort", err.Error())
		return
	}

	store := usecase.StoreFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(store.SortedTransactions(field, dir), store.Categories()))
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.Creating{}, http.StatusCreated)
}

// Update handles PUT /transactions/{id}.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.Editing{ID: chi.URLParam(r, "id")}, http.StatusOK)
}

func (h *TransactionHandler) submit(w http.ResponseWriter, r *http.Request, mode domain.EditMode, status int) {
	var req dto.TransactionRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	in, err := req.ToDomainInput()
	if err != nil {
		writeDomainError(w, r, "invalid transaction", err)
		return
	}

	store := usecase.StoreFromContext(r.Context())
	t, err := store.Submit(r.Context(), mode, in)
	if err != nil {
		writeDomainError(w, r, "failed to save transaction", err)
		return
	}

	hlog.FromRequest(r).Info().Str("transaction_id", t.ID).Msg("transaction saved")
	writeJSON(w, status, dto.TransactionFromDomain(t, store.CategoryName))
}

// Delete handles DELETE /transactions/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	store := usecase.StoreFromContext(r.Context())
	if !store.DeleteTransaction(r.Context(), id) {
		writeError(w, http.StatusNotFound, "transaction not found", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
