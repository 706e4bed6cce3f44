package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/moneybook/internal/domain"
	"github.com/iho/moneybook/internal/usecase"
)

// DefaultChangeChannel is the LISTEN/NOTIFY channel for slot writes.
const DefaultChangeChannel = "moneybook_slot_changes"

const (
	getSlotQuery    = `SELECT value FROM slots WHERE key = $1`
	upsertSlotQuery = `INSERT INTO slots (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteSlotQuery = `DELETE FROM slots WHERE key = $1`
	notifyQuery     = `SELECT pg_notify($1, $2)`
)

// SlotStore implements usecase.SlotStore on the slots table. Writes notify
// DefaultChangeChannel with "origin|key" in the same transaction.
type SlotStore struct {
	pool    *pgxpool.Pool
	retrier *Retrier
	logger  zerolog.Logger
	channel string
	origin  string
}

// NewSlotStore creates a new SlotStore.
func NewSlotStore(pool *pgxpool.Pool, retrier *Retrier, logger zerolog.Logger) *SlotStore {
	return &SlotStore{
		pool:    pool,
		retrier: retrier,
		logger:  logger,
		channel: DefaultChangeChannel,
		origin:  uuid.NewString(),
	}
}

// Get retrieves a slot payload.
func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, getSlotQuery, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a slot payload.
func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	return s.write(ctx, key, upsertSlotQuery, key, value)
}

// Delete removes a slot.
func (s *SlotStore) Delete(ctx context.Context, key string) error {
	return s.write(ctx, key, deleteSlotQuery, key)
}

func (s *SlotStore) write(ctx context.Context, key, query string, args ...any) error {
	err := s.retrier.Retry(ctx, func() error {
		return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, notifyQuery, s.channel, encodeChange(s.origin, key))
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *SlotStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Watch holds a dedicated connection in LISTEN mode and forwards changes made
// by other processes. The channel is closed when ctx is done or the connection
// is lost.
func (s *SlotStore) Watch(ctx context.Context) (<-chan usecase.SlotChange, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", s.channel, err)
	}

	out := make(chan usecase.SlotChange, 16)
	go func() {
		defer close(out)
		defer conn.Release()

		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Error().Err(err).Str("channel", s.channel).Msg("slot change listener stopped")
				}
				return
			}

			key, ok := decodeChange(n.Payload, s.origin)
			if !ok {
				continue
			}

			select {
			case out <- usecase.SlotChange{Key: key}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func encodeChange(origin, key string) string {
	return origin + "|" + key
}

// decodeChange returns the key of a change made by a different origin.
func decodeChange(payload, self string) (string, bool) {
	origin, key, found := strings.Cut(payload, "|")
	if !found || key == "" || origin == self {
		return "", false
	}
	return key, true
}
