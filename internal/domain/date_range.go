package domain

import "fmt"

// DateRange is an inclusive calendar interval used to filter transactions.
type DateRange struct {
	StartDate Date `json:"startDate"`
	EndDate   Date `json:"endDate"`
}

// Contains reports whether d falls within [StartDate, EndDate].
func (r DateRange) Contains(d Date) bool {
	return d.Compare(r.StartDate) >= 0 && d.Compare(r.EndDate) <= 0
}

// Validate checks that both ends are set and start is not after end.
func (r DateRange) Validate() error {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidDateRange)
	}
	if r.StartDate.Compare(r.EndDate) > 0 {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange, r.StartDate, r.EndDate)
	}
	return nil
}

// FilterByDateRange returns the transactions inside r in their original order.
// A nil range returns txs unchanged.
func FilterByDateRange(txs []Transaction, r *DateRange) []Transaction {
	if r == nil {
		return txs
	}
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
