package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortField names a sortable transaction column.
type SortField string

const (
	SortByDate        SortField = "date"
	SortByDescription SortField = "description"
	SortByAmount      SortField = "amount"
	SortByType        SortField = "type"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSort validates a field/direction pair; empty values default to date desc.
func ParseSort(field, dir string) (SortField, SortDirection, error) {
	f := SortField(strings.ToLower(field))
	if f == "" {
		f = SortByDate
	}
	switch f {
	case SortByDate, SortByDescription, SortByAmount, SortByType:
	default:
		return "", "", fmt.Errorf("unknown sort field %q", field)
	}

	d := SortDirection(strings.ToLower(dir))
	if d == "" {
		d = SortDesc
	}
	if d != SortAsc && d != SortDesc {
		return "", "", fmt.Errorf("unknown sort direction %q", dir)
	}
	return f, d, nil
}

// SortTransactions returns a sorted copy of txs. The sort is stable so equal
// keys keep insertion order. Text columns compare case-insensitively.
func SortTransactions(txs []Transaction, field SortField, dir SortDirection) []Transaction {
	out := slices.Clone(txs)
	compare := func(a, b Transaction) int {
		switch field {
		case SortByAmount:
			return a.Amount.Cmp(b.Amount)
		case SortByDate:
			return a.Date.Compare(b.Date)
		case SortByType:
			return cmp.Compare(string(a.Type), string(b.Type))
		default:
			return cmp.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		}
	}
	slices.SortStableFunc(out, func(a, b Transaction) int {
		if dir == SortDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}
