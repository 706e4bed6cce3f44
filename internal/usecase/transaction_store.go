package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/moneybook/internal/domain"
)

// StoreConfig holds the dependencies of a TransactionStore.
type StoreConfig struct {
	Slots   SlotStore
	IDGen   IDGenerator
	Logger  *zerolog.Logger
	Metrics StoreMetrics

	TransactionsSlot string
	CategoriesSlot   string

	// Validate rejects malformed transactions, categories and date ranges at
	// the command boundary. With Validate off the store accepts any input.
	Validate bool
}

// TransactionStore owns the canonical list of transactions and categories and
// the active date filter. Every mutation is followed by a full re-persist of
// the affected slot. Derived values are recomputed on every read.
type TransactionStore struct {
	slots    SlotStore
	idGen    IDGenerator
	logger   zerolog.Logger
	metrics  StoreMetrics
	validate bool

	transactionsSlot string
	categoriesSlot   string

	mu           sync.RWMutex
	transactions []domain.Transaction
	categories   []domain.Category
	dateRange    *domain.DateRange
	fingerprints map[string]uint64
	// unloaded holds slots whose read failed for a reason other than absence
	// or corruption. They are not written until a Reload succeeds.
	unloaded map[string]bool
}

// NewTransactionStore creates a store and restores its state from the slots.
// It never fails: absent or corrupt slots fall back to empty transactions and
// the default categories. A slot whose read fails outright is left untouched
// in storage and reported by Stale, so a later Reload can pick it up.
func NewTransactionStore(ctx context.Context, cfg StoreConfig) *TransactionStore {
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if cfg.TransactionsSlot == "" {
		cfg.TransactionsSlot = DefaultTransactionsSlot
	}
	if cfg.CategoriesSlot == "" {
		cfg.CategoriesSlot = DefaultCategoriesSlot
	}

	s := &TransactionStore{
		slots:            cfg.Slots,
		idGen:            cfg.IDGen,
		logger:           cfg.Logger.With().Str("component", "transaction_store").Logger(),
		metrics:          cfg.Metrics,
		validate:         cfg.Validate,
		transactionsSlot: cfg.TransactionsSlot,
		categoriesSlot:   cfg.CategoriesSlot,
		fingerprints:     make(map[string]uint64, 2),
		unloaded:         make(map[string]bool, 2),
	}

	s.mu.Lock()
	s.load(ctx)
	s.mu.Unlock()

	return s
}

// AddTransaction appends a new transaction with a freshly generated id.
func (s *TransactionStore) AddTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validate {
		if err := domain.ValidateTransactionInput(in, s.categories); err != nil {
			return domain.Transaction{}, err
		}
	}

	t := in.WithID(s.idGen.Generate())
	s.transactions = append(s.transactions, t)

	s.afterTransactionsMutation(ctx, CommandAdd)

	s.logger.Debug().Str("transaction_id", t.ID).Msg("transaction added")

	return t, nil
}

// UpdateTransaction replaces the transaction with the same id in place. It
// reports false and changes nothing when no transaction has that id.
func (s *TransactionStore) UpdateTransaction(ctx context.Context, t domain.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validate {
		if err := domain.ValidateTransactionInput(t.Input(), s.categories); err != nil {
			return false, err
		}
	}

	i := s.indexOf(t.ID)
	if i < 0 {
		s.metrics.ObserveCommand(CommandUpdate, false)
		return false, nil
	}

	s.transactions[i] = t

	s.afterTransactionsMutation(ctx, CommandUpdate)

	return true, nil
}

// DeleteTransaction removes the transaction with the given id. It reports
// false when there was nothing to remove.
func (s *TransactionStore) DeleteTransaction(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.metrics.ObserveCommand(CommandDelete, false)
		return false
	}

	s.transactions = slices.Delete(s.transactions, i, i+1)

	s.afterTransactionsMutation(ctx, CommandDelete)

	return true
}

// SetDateRangeFilter replaces the active filter. nil clears it.
func (s *TransactionStore) SetDateRangeFilter(r *domain.DateRange) error {
	if r != nil && s.validate {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r == nil {
		s.dateRange = nil
	} else {
		copied := *r
		s.dateRange = &copied
	}
	s.metrics.ObserveCommand(CommandSetFilter, true)

	return nil
}

// SetCategories replaces the category list and persists it.
func (s *TransactionStore) SetCategories(ctx context.Context, categories []domain.Category) error {
	if s.validate {
		if err := domain.ValidateCategories(categories); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = slices.Clone(categories)
	if s.categories == nil {
		s.categories = []domain.Category{}
	}
	s.persist(ctx, s.categoriesSlot, s.categories)
	s.metrics.ObserveCommand(CommandSetCategories, true)

	return nil
}

// Submit applies a transaction form: Creating adds, Editing updates the
// transaction with the given id.
func (s *TransactionStore) Submit(ctx context.Context, mode domain.EditMode, in domain.TransactionInput) (domain.Transaction, error) {
	switch m := mode.(type) {
	case domain.Creating:
		return s.AddTransaction(ctx, in)
	case domain.Editing:
		t := in.WithID(m.ID)
		updated, err := s.UpdateTransaction(ctx, t)
		if err != nil {
			return domain.Transaction{}, err
		}
		if !updated {
			return domain.Transaction{}, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, m.ID)
		}
		return t, nil
	default:
		return domain.Transaction{}, fmt.Errorf("unsupported edit mode %T", mode)
	}
}

// afterTransactionsMutation is the post-command hook for transaction commands.
// Callers must hold the write lock.
func (s *TransactionStore) afterTransactionsMutation(ctx context.Context, command string) {
	s.persist(ctx, s.transactionsSlot, s.transactions)
	s.metrics.ObserveCommand(command, true)
	s.metrics.SetTransactionCount(len(s.transactions))
}

func (s *TransactionStore) indexOf(id string) int {
	return slices.IndexFunc(s.transactions, func(t domain.Transaction) bool {
		return t.ID == id
	})
}
