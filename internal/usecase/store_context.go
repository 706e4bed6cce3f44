package usecase

import "context"

type storeContextKey struct{}

// WithStore returns a copy of ctx carrying store.
func WithStore(ctx context.Context, store *TransactionStore) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// StoreFromContext returns the store attached by WithStore. Reaching for the
// store outside of a scope that provides one is a programming error, so it
// panics instead of returning nil.
func StoreFromContext(ctx context.Context) *TransactionStore {
	store, ok := ctx.Value(storeContextKey{}).(*TransactionStore)
	if !ok || store == nil {
		panic("usecase: StoreFromContext called without a TransactionStore in context; wrap the handler with the store middleware or call WithStore")
	}
	return store
}
