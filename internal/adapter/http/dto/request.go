package dto

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/moneybook/internal/domain"
)

// TransactionRequest is the body of POST /transactions and PUT /transactions/{id}.
// Amount accepts either a JSON number or a numeric string.
type TransactionRequest struct {
	Date        string      `json:"date" validate:"required,calendar_date"`
	Description string      `json:"description" validate:"required,max=200"`
	Amount      json.Number `json:"amount" validate:"required,positive_decimal"`
	Type        string      `json:"type" validate:"required,transaction_type"`
	CategoryID  string      `json:"categoryId" validate:"required"`
}

// ToDomainInput converts the request into a transaction input. The request is
// expected to have passed validation already; parse errors are still reported.
func (r *TransactionRequest) ToDomainInput() (domain.TransactionInput, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.TransactionInput{}, err
	}

	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return domain.TransactionInput{}, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, r.Amount)
	}

	return domain.TransactionInput{
		Date:        date,
		Description: r.Description,
		Amount:      amount,
		Type:        domain.TransactionType(r.Type),
		CategoryID:  r.CategoryID,
	}, nil
}

// CategoryItem is one entry of a category replacement.
type CategoryItem struct {
	ID    string `json:"id" validate:"required,max=64"`
	Name  string `json:"name" validate:"required,max=64"`
	Type  string `json:"type" validate:"required,transaction_type"`
	Color string `json:"color" validate:"required,hexcolor"`
}

// ReplaceCategoriesRequest is the body of PUT /categories.
type ReplaceCategoriesRequest struct {
	Categories []CategoryItem `json:"categories" validate:"required,min=1,unique=ID,dive"`
}

// ToDomain converts the request into domain categories.
func (r *ReplaceCategoriesRequest) ToDomain() []domain.Category {
	out := make([]domain.Category, len(r.Categories))
	for i, c := range r.Categories {
		out[i] = domain.Category{
			ID:    c.ID,
			Name:  c.Name,
			Type:  domain.TransactionType(c.Type),
			Color: c.Color,
		}
	}
	return out
}

// DateRangeRequest is the body of PUT /filter.
type DateRangeRequest struct {
	StartDate string `json:"startDate" validate:"required,calendar_date"`
	EndDate   string `json:"endDate" validate:"required,calendar_date"`
}

// ToDomain converts the request into a date range.
func (r *DateRangeRequest) ToDomain() (*domain.DateRange, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}
	return &domain.DateRange{StartDate: start, EndDate: end}, nil
}
