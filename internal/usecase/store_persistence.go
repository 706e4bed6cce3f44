package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/iho/moneybook/internal/domain"
)

// load restores state at startup. Callers must hold the write lock.
func (s *TransactionStore) load(ctx context.Context) {
	txs, raw, err := readSlot[[]domain.Transaction](ctx, s.slots, s.transactionsSlot)
	switch {
	case err == nil:
		s.transactions = nonNil(txs)
		s.fingerprints[s.transactionsSlot] = xxhash.Sum64(raw)
	case fallsBack(err):
		s.reportLoadFallback(s.transactionsSlot, err)
		s.transactions = []domain.Transaction{}
		s.remember(s.transactionsSlot, raw)
	default:
		s.markUnloaded(s.transactionsSlot, err)
		s.transactions = []domain.Transaction{}
	}

	cats, raw, err := readSlot[[]domain.Category](ctx, s.slots, s.categoriesSlot)
	switch {
	case err == nil:
		s.categories = nonNil(cats)
		s.fingerprints[s.categoriesSlot] = xxhash.Sum64(raw)
	case fallsBack(err):
		s.reportLoadFallback(s.categoriesSlot, err)
		s.categories = domain.DefaultCategories()
		s.persist(ctx, s.categoriesSlot, s.categories)
	default:
		s.markUnloaded(s.categoriesSlot, err)
		s.categories = domain.DefaultCategories()
	}

	s.metrics.SetTransactionCount(len(s.transactions))

	s.logger.Info().
		Int("transactions", len(s.transactions)).
		Int("categories", len(s.categories)).
		Msg("store state restored")
}

// Reload re-reads both slots after an out-of-band change. A slot that is
// absent or cannot be decoded keeps its in-memory value. A corrupt payload is
// reported once; Stale stays false until the payload changes again.
func (s *TransactionStore) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	txs, raw, err := readSlot[[]domain.Transaction](ctx, s.slots, s.transactionsSlot)
	if err == nil {
		s.transactions = nonNil(txs)
	}
	if err := s.settle(s.transactionsSlot, raw, err); err != nil {
		errs = append(errs, err)
	}

	cats, raw, err := readSlot[[]domain.Category](ctx, s.slots, s.categoriesSlot)
	if err == nil {
		s.categories = nonNil(cats)
	}
	if err := s.settle(s.categoriesSlot, raw, err); err != nil {
		errs = append(errs, err)
	}

	s.metrics.ObserveCommand(CommandReload, len(errs) == 0)
	s.metrics.SetTransactionCount(len(s.transactions))

	return errors.Join(errs...)
}

// settle records the outcome of reading key during a reload and returns the
// error worth reporting, if any. Callers must hold the write lock.
func (s *TransactionStore) settle(key string, raw []byte, err error) error {
	switch {
	case err == nil:
		s.fingerprints[key] = xxhash.Sum64(raw)
		delete(s.unloaded, key)
		return nil
	case errors.Is(err, domain.ErrSlotNotFound):
		delete(s.unloaded, key)
		return nil
	case errors.Is(err, domain.ErrSlotCorrupt):
		s.remember(key, raw)
		delete(s.unloaded, key)
		return err
	default:
		return err
	}
}

// Stale reports whether either slot holds a payload the store has neither
// written nor read, or was never loaded.
func (s *TransactionStore) Stale(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, key := range []string{s.transactionsSlot, s.categoriesSlot} {
		if s.unloaded[key] {
			return true, nil
		}
		raw, err := s.slots.Get(ctx, key)
		if errors.Is(err, domain.ErrSlotNotFound) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("read slot %s: %w", key, err)
		}
		if known, ok := s.fingerprints[key]; !ok || known != xxhash.Sum64(raw) {
			return true, nil
		}
	}
	return false, nil
}

// persist serialises v into the slot. Failures are diagnostic only: the
// in-memory state stays authoritative and nothing is retried here. Callers
// must hold the write lock.
func (s *TransactionStore) persist(ctx context.Context, key string, v any) {
	if s.unloaded[key] {
		s.reportPersistFailure(key, domain.ErrSlotUnavailable)
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		s.reportPersistFailure(key, err)
		return
	}

	if err := s.slots.Set(ctx, key, raw); err != nil {
		s.reportPersistFailure(key, err)
		return
	}

	s.fingerprints[key] = xxhash.Sum64(raw)
}

func (s *TransactionStore) reportPersistFailure(key string, err error) {
	s.metrics.ObservePersistFailure(key)
	s.logger.Warn().Err(err).Str("slot", key).Msg("failed to persist slot")
}

// remember records the fingerprint of a payload the store has seen but could
// not adopt, so Stale does not report it again.
func (s *TransactionStore) remember(key string, raw []byte) {
	if raw != nil {
		s.fingerprints[key] = xxhash.Sum64(raw)
	}
}

func (s *TransactionStore) markUnloaded(key string, err error) {
	s.unloaded[key] = true
	s.logger.Error().Err(err).Str("slot", key).Msg("slot read failed, writes suspended until reload")
}

// fallsBack reports whether a read error means the slot is absent or corrupt,
// the two cases where defaults replace it.
func fallsBack(err error) bool {
	return errors.Is(err, domain.ErrSlotNotFound) || errors.Is(err, domain.ErrSlotCorrupt)
}

func (s *TransactionStore) reportLoadFallback(key string, err error) {
	if errors.Is(err, domain.ErrSlotNotFound) {
		s.logger.Debug().Str("slot", key).Msg("slot empty, using defaults")
		return
	}
	s.metrics.ObserveLoadFallback(key)
	s.logger.Warn().Err(err).Str("slot", key).Msg("slot unreadable, using defaults")
}

func readSlot[T any](ctx context.Context, slots SlotStore, key string) (T, []byte, error) {
	var v T

	raw, err := slots.Get(ctx, key)
	if err != nil {
		return v, nil, err
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, raw, fmt.Errorf("%w: %s: %v", domain.ErrSlotCorrupt, key, err)
	}

	return v, raw, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
