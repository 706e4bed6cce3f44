package middleware

import (
	"net/http"

	"github.com/iho/moneybook/internal/usecase"
)

// InjectStore makes store available to handlers via usecase.StoreFromContext.
func InjectStore(store *usecase.TransactionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(usecase.WithStore(r.Context(), store)))
		})
	}
}
