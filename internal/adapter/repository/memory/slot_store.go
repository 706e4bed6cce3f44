// Package memory provides a process-local slot store.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/iho/moneybook/internal/domain"
)

// SlotStore keeps slots in a map. Values are copied on the way in and out.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[string][]byte)}
}

func (s *SlotStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	return slices.Clone(v), nil
}

func (s *SlotStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = slices.Clone(value)
	return nil
}

func (s *SlotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}
