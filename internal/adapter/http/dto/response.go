package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/moneybook/internal/domain"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID           string                 `json:"id"`
	Date         domain.Date            `json:"date"`
	Description  string                 `json:"description"`
	Amount       decimal.Decimal        `json:"amount"`
	Type         domain.TransactionType `json:"type"`
	CategoryID   string                 `json:"categoryId"`
	CategoryName string                 `json:"categoryName"`
}

// TransactionFromDomain converts a domain transaction to a response. name
// resolves the category display name.
func TransactionFromDomain(t domain.Transaction, name func(string) string) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		Date:         t.Date,
		Description:  t.Description,
		Amount:       t.Amount,
		Type:         t.Type,
		CategoryID:   t.CategoryID,
		CategoryName: name(t.CategoryID),
	}
}

// TransactionListResponse wraps a list of transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// TransactionsFromDomain converts domain transactions to a list response,
// resolving category names from categories.
func TransactionsFromDomain(txs []domain.Transaction, categories []domain.Category) TransactionListResponse {
	name := func(id string) string { return domain.CategoryName(categories, id) }

	out := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		out[i] = TransactionFromDomain(t, name)
	}
	return TransactionListResponse{Transactions: out, Count: len(out)}
}

// CategoryListResponse wraps the category list.
type CategoryListResponse struct {
	Categories []domain.Category `json:"categories"`
}

// FilterResponse reports the active date range; DateRange is null when no
// filter is set.
type FilterResponse struct {
	DateRange *domain.DateRange `json:"dateRange"`
}

// SummaryResponse carries the totals of the filtered view.
type SummaryResponse struct {
	TotalIncome  decimal.Decimal   `json:"totalIncome"`
	TotalExpense decimal.Decimal   `json:"totalExpense"`
	Balance      decimal.Decimal   `json:"balance"`
	Count        int               `json:"count"`
	DateRange    *domain.DateRange `json:"dateRange"`
}

// MonthlyChartResponse is the payload of GET /charts/monthly.
type MonthlyChartResponse struct {
	Months []domain.MonthlyTotal `json:"months"`
}

// CategoryChartResponse is the payload of GET /charts/categories.
type CategoryChartResponse struct {
	Type       domain.TransactionType   `json:"type"`
	Categories []domain.CategorySummary `json:"categories"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
