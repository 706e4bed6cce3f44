package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/moneybook/internal/domain"
)

func TestSlotStoreSetGetDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewSlotStore(client)
	ctx := context.Background()

	if _, err := store.Get(ctx, "transactions"); !errors.Is(err, domain.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}

	if err := store.Set(ctx, "transactions", []byte(`[]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := store.Get(ctx, "transactions")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(val) != `[]` {
		t.Fatalf("expected [], got %s", val)
	}

	raw, err := client.Get(ctx, DefaultSlotPrefix+"transactions").Result()
	if err != nil || raw != `[]` {
		t.Fatalf("expected prefixed key, got val=%s err=%v", raw, err)
	}

	if err := store.Delete(ctx, "transactions"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "transactions"); !errors.Is(err, domain.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound after delete, got %v", err)
	}
}

func TestSlotStorePing(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewSlotStore(client)

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	mr.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail after server shutdown")
	}
}

func TestSlotStoreWatchIgnoresOwnWrites(t *testing.T) {
	client, _ := newTestRedisClient(t)

	local := NewSlotStore(client, WithOrigin("local"))
	remote := NewSlotStore(client, WithOrigin("remote"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := local.Watch(ctx)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if err := local.Set(ctx, "categories", []byte(`[]`)); err != nil {
		t.Fatalf("local set failed: %v", err)
	}
	if err := remote.Set(ctx, "transactions", []byte(`[]`)); err != nil {
		t.Fatalf("remote set failed: %v", err)
	}

	select {
	case change := <-changes:
		if change.Key != "transactions" {
			t.Fatalf("expected remote change to transactions, got %q", change.Key)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change notification")
	}

	select {
	case change := <-changes:
		t.Fatalf("unexpected extra notification for %q", change.Key)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case _, ok := <-changes:
		if ok {
			t.Fatalf("expected channel to close after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}
