package usecase

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/iho/moneybook/internal/domain"
)

// Transactions returns a copy of all transactions in insertion order.
func (s *TransactionStore) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// Categories returns a copy of the category list.
func (s *TransactionStore) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// DateRange returns the active filter or nil.
func (s *TransactionStore) DateRange() *domain.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dateRange == nil {
		return nil
	}
	r := *s.dateRange
	return &r
}

// FilteredTransactions returns the transactions inside the active filter, or
// all of them when no filter is set.
func (s *TransactionStore) FilteredTransactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked()
}

func (s *TransactionStore) TotalIncome() decimal.Decimal {
	return s.Totals().Income
}

func (s *TransactionStore) TotalExpense() decimal.Decimal {
	return s.Totals().Expense
}

func (s *TransactionStore) Balance() decimal.Decimal {
	return s.Totals().Balance
}

// Totals computes income, expense and balance over the filtered view from a
// single snapshot.
func (s *TransactionStore) Totals() domain.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ComputeTotals(s.filteredLocked())
}

// MonthlyTotals aggregates the filtered view by month.
func (s *TransactionStore) MonthlyTotals() []domain.MonthlyTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.MonthlyTotals(s.filteredLocked())
}

// CategoryTotals aggregates the filtered view by category for one type.
func (s *TransactionStore) CategoryTotals(t domain.TransactionType, opts ...domain.CategoryTotalsOption) []domain.CategorySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CategoryTotals(s.filteredLocked(), t, domain.CategoryLookup(s.categories), opts...)
}

// CategoryName resolves a category id to its display name.
func (s *TransactionStore) CategoryName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CategoryName(s.categories, id)
}

// SortedTransactions returns the filtered view ordered by field and dir.
func (s *TransactionStore) SortedTransactions(field domain.SortField, dir domain.SortDirection) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SortTransactions(s.filteredLocked(), field, dir)
}

func (s *TransactionStore) filteredLocked() []domain.Transaction {
	if s.dateRange == nil {
		return slices.Clone(s.transactions)
	}
	return domain.FilterByDateRange(s.transactions, s.dateRange)
}
