package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxDescriptionLength = 200
	MaxTransactionAmount = "1000000000000" // 1 trillion
)

var maxAmount = decimal.RequireFromString(MaxTransactionAmount)

// ValidateAmount validates a transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidateDescription validates a transaction description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return ErrEmptyDescription
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: max %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}

	return nil
}

// ValidateTransactionInput checks the fields the entry form requires and that
// the category exists and matches the transaction type.
func ValidateTransactionInput(in TransactionInput, categories []Category) error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	if err := ValidateDescription(in.Description); err != nil {
		return err
	}

	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}

	if !in.Type.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidTransactionType, in.Type)
	}

	if strings.TrimSpace(in.CategoryID) == "" {
		return ErrCategoryRequired
	}

	category, ok := FindCategory(categories, in.CategoryID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, in.CategoryID)
	}

	if category.Type != in.Type {
		return fmt.Errorf("%w: category %s is %s, transaction is %s", ErrCategoryTypeMismatch, category.ID, category.Type, in.Type)
	}

	return nil
}

// ValidateCategories checks a full category list before it replaces the current one.
func ValidateCategories(categories []Category) error {
	seen := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: category %d has no id", ErrInvalidCategory, i)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: category %s has no name", ErrInvalidCategory, c.ID)
		}
		if !c.Type.Valid() {
			return fmt.Errorf("%w: category %s has type %q", ErrInvalidCategory, c.ID, c.Type)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
