// Package redis opens the client shared by the redis slot store and the
// idempotency store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options tune the shared client. Zero values keep whatever the URL or
// go-redis defaults say.
type Options struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
}

// NewClient parses opts.URL, applies the pool settings and pings the server
// within the dial timeout.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if opts.PoolSize > 0 {
		parsed.PoolSize = opts.PoolSize
	}
	if opts.MinIdleConns > 0 {
		parsed.MinIdleConns = opts.MinIdleConns
	}
	if opts.DialTimeout > 0 {
		parsed.DialTimeout = opts.DialTimeout
	}

	client := redis.NewClient(parsed)

	pingCtx, cancel := context.WithTimeout(ctx, client.Options().DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", parsed.Addr, err)
	}

	return client, nil
}
