package handler

import (
	"net/http"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/usecase"
	"github.com/iho/moneybook/internal/validation"
)

// CategoryHandler handles category HTTP requests.
type CategoryHandler struct {
	validator *validation.Validator
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(v *validation.Validator) *CategoryHandler {
	return &CategoryHandler{validator: v}
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	store := usecase.StoreFromContext(r.Context())
	writeJSON(w, http.StatusOK, dto.CategoryListResponse{Categories: store.Categories()})
}

// Replace handles PUT /categories. Existing transactions keep their category
// ids even when the new list no longer contains them.
func (h *CategoryHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplaceCategoriesRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	store := usecase.StoreFromContext(r.Context())
	if err := store.SetCategories(r.Context(), req.ToDomain()); err != nil {
		writeDomainError(w, r, "failed to replace categories", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryListResponse{Categories: store.Categories()})
}
