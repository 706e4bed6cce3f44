package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/usecase"
)

const (
	DefaultSlotPrefix    = "moneybook:slot:"
	DefaultChangeChannel = "moneybook:slot-changes"
)

// SlotStore implements usecase.SlotStore on Redis strings. Every write is
// announced on a pub/sub channel as "origin|key" so other processes sharing
// the keys can reload.
type SlotStore struct {
	client  *redis.Client
	prefix  string
	channel string
	origin  string
}

// SlotStoreOption configures a SlotStore.
type SlotStoreOption func(*SlotStore)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) SlotStoreOption {
	return func(s *SlotStore) { s.prefix = prefix }
}

// WithChannel overrides the change notification channel.
func WithChannel(channel string) SlotStoreOption {
	return func(s *SlotStore) { s.channel = channel }
}

// WithOrigin sets the id this process stamps on its notifications.
func WithOrigin(origin string) SlotStoreOption {
	return func(s *SlotStore) { s.origin = origin }
}

// NewSlotStore creates a new SlotStore.
func NewSlotStore(client *redis.Client, opts ...SlotStoreOption) *SlotStore {
	s := &SlotStore{
		client:  client,
		prefix:  DefaultSlotPrefix,
		channel: DefaultChangeChannel,
		origin:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a slot payload.
func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a slot payload and publishes the change.
func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.prefix+key, value, 0)
		pipe.Publish(ctx, s.channel, s.origin+"|"+key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a slot and publishes the change.
func (s *SlotStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.prefix+key)
		pipe.Publish(ctx, s.channel, s.origin+"|"+key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *SlotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Watch subscribes to change notifications from other processes. It returns
// once the subscription is confirmed. The channel is closed when ctx is done.
func (s *SlotStore) Watch(ctx context.Context) (<-chan usecase.SlotChange, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", s.channel, err)
	}

	out := make(chan usecase.SlotChange, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				origin, key, found := strings.Cut(msg.Payload, "|")
				if !found || origin == s.origin {
					continue
				}
				select {
				case out <- usecase.SlotChange{Key: key}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
