package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/validation"
)

// maxBodyBytes caps request bodies; a full category list is far below it.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeValidationError writes a 422 with one message per offending field.
func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
		Error:   "validation failed",
		Message: "one or more fields are invalid",
		Fields:  validation.FieldErrors(err),
	})
}

// writeDomainError maps err to a status code and logs server-side failures.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg(message)
	}
	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrEmptyDescription),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrDuplicateCategory):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCategoryRequired),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrCategoryTypeMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into dst and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("request body is empty")
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}

	if err := v.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

// parseBoolQuery parses a boolean query parameter with a default value.
func parseBoolQuery(r *http.Request, key string, defaultValue bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return b
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
