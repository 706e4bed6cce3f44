package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iho/moneybook/internal/domain"
)

// ConsistencyIssue describes one transaction that breaks a store invariant.
type ConsistencyIssue struct {
	TransactionID string `json:"transactionId"`
	CategoryID    string `json:"categoryId,omitempty"`
	Problem       string `json:"problem"`
}

const (
	ProblemMissingCategory = "missing_category"
	ProblemTypeMismatch    = "category_type_mismatch"
	ProblemDuplicateID     = "duplicate_id"
	ProblemInvalidAmount   = "non_positive_amount"
)

// ConsistencyReport is the result of CheckConsistency.
type ConsistencyReport struct {
	TotalTransactions int                `json:"totalTransactions"`
	TotalCategories   int                `json:"totalCategories"`
	Issues            []ConsistencyIssue `json:"issues"`
	SlotsInSync       map[string]bool    `json:"slotsInSync"`
	Consistent        bool               `json:"consistent"`
	CheckedAt         time.Time          `json:"checkedAt"`
}

// CheckConsistency inspects the in-memory state for orphaned or malformed
// transactions and compares each persisted slot against it.
func (s *TransactionStore) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := &ConsistencyReport{
		TotalTransactions: len(s.transactions),
		TotalCategories:   len(s.categories),
		Issues:            make([]ConsistencyIssue, 0),
		SlotsInSync:       make(map[string]bool, 2),
		CheckedAt:         time.Now().UTC(),
	}

	seen := make(map[string]struct{}, len(s.transactions))
	for _, t := range s.transactions {
		if _, dup := seen[t.ID]; dup {
			report.Issues = append(report.Issues, ConsistencyIssue{TransactionID: t.ID, Problem: ProblemDuplicateID})
		}
		seen[t.ID] = struct{}{}

		if !t.Amount.IsPositive() {
			report.Issues = append(report.Issues, ConsistencyIssue{TransactionID: t.ID, Problem: ProblemInvalidAmount})
		}

		c, ok := domain.FindCategory(s.categories, t.CategoryID)
		switch {
		case !ok:
			report.Issues = append(report.Issues, ConsistencyIssue{
				TransactionID: t.ID,
				CategoryID:    t.CategoryID,
				Problem:       ProblemMissingCategory,
			})
		case c.Type != t.Type:
			report.Issues = append(report.Issues, ConsistencyIssue{
				TransactionID: t.ID,
				CategoryID:    t.CategoryID,
				Problem:       ProblemTypeMismatch,
			})
		}
	}

	var err error
	if report.SlotsInSync[s.transactionsSlot], err = s.slotMatches(ctx, s.transactionsSlot, s.transactions); err != nil {
		return nil, err
	}
	if report.SlotsInSync[s.categoriesSlot], err = s.slotMatches(ctx, s.categoriesSlot, s.categories); err != nil {
		return nil, err
	}

	report.Consistent = len(report.Issues) == 0 &&
		report.SlotsInSync[s.transactionsSlot] &&
		report.SlotsInSync[s.categoriesSlot]

	return report, nil
}

func (s *TransactionStore) slotMatches(ctx context.Context, key string, v any) (bool, error) {
	stored, err := s.slots.Get(ctx, key)
	if errors.Is(err, domain.ErrSlotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}

	current, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("failed to encode slot %s: %w", key, err)
	}

	return bytes.Equal(bytes.TrimSpace(stored), current), nil
}
