package domain

import "errors"

var (
	// Transaction errors
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrAmountTooLarge         = errors.New("amount exceeds maximum allowed")
	ErrEmptyDescription       = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description too long")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidTransactionType = errors.New("transaction type must be income or expense")
	ErrTransactionNotFound    = errors.New("transaction not found")

	// Category errors
	ErrCategoryRequired     = errors.New("category is required")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrDuplicateCategory    = errors.New("duplicate category id")

	// Filter errors
	ErrInvalidDateRange = errors.New("invalid date range")

	// Storage errors
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotCorrupt     = errors.New("slot payload cannot be decoded")
	ErrSlotUnavailable = errors.New("slot was not loaded from storage")
)
