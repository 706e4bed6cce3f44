package usecase

import (
	"context"
	"time"
)

// SlotStore is the durable key-value slot the store mirrors its state into.
// Get returns domain.ErrSlotNotFound for absent keys. There are no guarantees
// across keys.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SlotChange reports that a slot was written by another process.
type SlotChange struct {
	Key string
}

// SlotWatcher is implemented by slot stores that can push out-of-band change
// notifications. The channel is closed when ctx is done.
type SlotWatcher interface {
	Watch(ctx context.Context) (<-chan SlotChange, error)
}

// Pinger is implemented by slot stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// StoreMetrics receives store diagnostics.
type StoreMetrics interface {
	ObserveCommand(command string, applied bool)
	ObservePersistFailure(slot string)
	ObserveLoadFallback(slot string)
	SetTransactionCount(n int)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release forgets key so a failed request can be retried with it.
	Release(ctx context.Context, key string) error
}

type noopMetrics struct{}

func (noopMetrics) ObserveCommand(string, bool)   {}
func (noopMetrics) ObservePersistFailure(string) {}
func (noopMetrics) ObserveLoadFallback(string)   {}
func (noopMetrics) SetTransactionCount(int)      {}
