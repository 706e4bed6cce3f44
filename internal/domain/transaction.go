package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionType tells whether money came in or went out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single recorded money movement. Amount is never negative;
// direction is carried by Type.
type Transaction struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  string          `json:"categoryId"`
}

// TransactionInput is a transaction before an id has been assigned.
type TransactionInput struct {
	Date        Date
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	CategoryID  string
}

// WithID builds a Transaction from the input and the given id.
func (in TransactionInput) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Date:        in.Date,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		CategoryID:  in.CategoryID,
	}
}

// Input strips the id from t.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		CategoryID:  t.CategoryID,
	}
}

// Equal reports whether two transactions carry the same values.
func (t Transaction) Equal(other Transaction) bool {
	return t.ID == other.ID &&
		t.Date.Equal(other.Date.Time) &&
		t.Description == other.Description &&
		t.Amount.Equal(other.Amount) &&
		t.Type == other.Type &&
		t.CategoryID == other.CategoryID
}
