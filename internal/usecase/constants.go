package usecase

import "time"

const (
	// DefaultTransactionsSlot and DefaultCategoriesSlot are the slot keys used
	// when the configuration does not override them.
	DefaultTransactionsSlot = "transactions"
	DefaultCategoriesSlot   = "categories"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request is
	// still being served.
	IdempotencyPending = "processing"
)

// Command names reported to StoreMetrics.
const (
	CommandAdd           = "add"
	CommandUpdate        = "update"
	CommandDelete        = "delete"
	CommandSetFilter     = "set_filter"
	CommandSetCategories = "set_categories"
	CommandReload        = "reload"
)
