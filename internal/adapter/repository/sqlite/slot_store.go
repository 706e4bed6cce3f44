// Package sqlite implements the slot store on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iho/moneybook/internal/domain"
)

const (
	getSlotQuery    = `SELECT value FROM slots WHERE key = ?`
	upsertSlotQuery = `INSERT INTO slots (key, value, updated_at)
VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteSlotQuery = `DELETE FROM slots WHERE key = ?`
)

// SlotStore implements usecase.SlotStore on the slots table.
type SlotStore struct {
	db *sql.DB
}

func NewSlotStore(db *sql.DB) *SlotStore {
	return &SlotStore{db: db}
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, getSlotQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return value, nil
}

func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertSlotQuery, key, value); err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteSlotQuery, key); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
