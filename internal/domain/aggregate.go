package domain

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Totals holds income, expense and their difference over a set of transactions.
type Totals struct {
	Income  decimal.Decimal `json:"totalIncome"`
	Expense decimal.Decimal `json:"totalExpense"`
	Balance decimal.Decimal `json:"balance"`
}

// MonthlyTotal aggregates one calendar month.
type MonthlyTotal struct {
	Month   string          `json:"month"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategorySummary aggregates one category for a single transaction type.
type CategorySummary struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
	Color        string          `json:"color"`
}

// ComputeTotals sums income and expense. Balance may be negative.
func ComputeTotals(txs []Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case TransactionTypeIncome:
			income = income.Add(t.Amount)
		case TransactionTypeExpense:
			expense = expense.Add(t.Amount)
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// MonthlyTotals groups transactions by calendar month, ascending. A month with
// no transactions of a type reports zero for that type. Input order is irrelevant.
func MonthlyTotals(txs []Transaction) []MonthlyTotal {
	byMonth := make(map[string]*MonthlyTotal)
	for _, t := range txs {
		key := t.Date.MonthKey()
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyTotal{
				Month:   key,
				Label:   t.Date.Format("Jan 2006"),
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			byMonth[key] = m
		}
		if t.Type == TransactionTypeIncome {
			m.Income = m.Income.Add(t.Amount)
		} else {
			m.Expense = m.Expense.Add(t.Amount)
		}
	}

	out := make([]MonthlyTotal, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b MonthlyTotal) int {
		return cmp.Compare(a.Month, b.Month)
	})
	return out
}

type categoryTotalsOptions struct {
	dropUnknown bool
}

// CategoryTotalsOption tunes CategoryTotals.
type CategoryTotalsOption func(*categoryTotalsOptions)

// WithoutUncategorized drops transactions whose category id is missing from
// the lookup instead of attributing them to the Uncategorized bucket.
func WithoutUncategorized() CategoryTotalsOption {
	return func(o *categoryTotalsOptions) {
		o.dropUnknown = true
	}
}

// CategoryTotals sums amounts per category over transactions of type t.
// Categories without transactions are omitted. Results are ordered by amount,
// largest first, ties broken by category id.
func CategoryTotals(txs []Transaction, t TransactionType, lookup map[string]CategoryInfo, opts ...CategoryTotalsOption) []CategorySummary {
	var o categoryTotalsOptions
	for _, opt := range opts {
		opt(&o)
	}

	byCategory := make(map[string]*CategorySummary)
	for _, tx := range txs {
		if tx.Type != t {
			continue
		}

		id := tx.CategoryID
		info, ok := lookup[id]
		if !ok {
			if o.dropUnknown {
				continue
			}
			id = UncategorizedID
			info = CategoryInfo{Name: UncategorizedName, Color: UncategorizedColor}
		}

		s, ok := byCategory[id]
		if !ok {
			s = &CategorySummary{
				CategoryID:   id,
				CategoryName: info.Name,
				Amount:       decimal.Zero,
				Color:        info.Color,
			}
			byCategory[id] = s
		}
		s.Amount = s.Amount.Add(tx.Amount)
	}

	out := make([]CategorySummary, 0, len(byCategory))
	for _, s := range byCategory {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b CategorySummary) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})
	return out
}

// MonthRange returns the first day of each of the last n months up to and
// including now's month, oldest first.
func MonthRange(n int, now time.Time) []Date {
	if n <= 0 {
		return nil
	}
	year, month, _ := now.Date()
	out := make([]Date, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = NewDate(year, month-time.Month(i), 1)
	}
	return out
}

// FillMonths returns one entry per month start in months, taking values from
// totals and zero-filling months with no activity. Totals outside months are
// dropped.
func FillMonths(totals []MonthlyTotal, months []Date) []MonthlyTotal {
	byMonth := make(map[string]MonthlyTotal, len(totals))
	for _, m := range totals {
		byMonth[m.Month] = m
	}

	out := make([]MonthlyTotal, len(months))
	for i, d := range months {
		key := d.MonthKey()
		if m, ok := byMonth[key]; ok {
			out[i] = m
			continue
		}
		out[i] = MonthlyTotal{
			Month:   key,
			Label:   d.Format("Jan 2006"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}
	return out
}
