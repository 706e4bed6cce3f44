// Package watcher keeps a TransactionStore in step with out-of-band slot
// writes, either from a change feed or by polling.
package watcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/moneybook/internal/usecase"
)

// Store is the part of usecase.TransactionStore the watcher drives.
type Store interface {
	Reload(ctx context.Context) error
	Stale(ctx context.Context) (bool, error)
}

// Metrics receives reload triggers.
type Metrics interface {
	ObserveSlotChange(source string)
}

// Trigger sources.
const (
	SourceNotify = "notify"
	SourcePoll   = "poll"
)

// Config for Watcher.
type Config struct {
	Store    Store
	Source   usecase.SlotWatcher // optional change feed
	Logger   *zerolog.Logger
	Metrics  Metrics
	Interval time.Duration // polling interval
}

// Watcher reloads the store when its slots change underneath it.
type Watcher struct {
	store    Store
	source   usecase.SlotWatcher
	logger   zerolog.Logger
	metrics  Metrics
	interval time.Duration
}

// New creates a new Watcher.
func New(cfg Config) *Watcher {
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}

	return &Watcher{
		store:    cfg.Store,
		source:   cfg.Source,
		logger:   cfg.Logger.With().Str("component", "watcher").Logger(),
		metrics:  cfg.Metrics,
		interval: cfg.Interval,
	}
}

// Start runs until ctx is cancelled. It follows the change feed when one is
// configured and falls back to polling when the feed cannot be opened or drops.
func (w *Watcher) Start(ctx context.Context) error {
	if w.source != nil {
		changes, err := w.source.Watch(ctx)
		if err != nil {
			w.logger.Warn().Err(err).Msg("change feed unavailable, polling instead")
		} else {
			w.logger.Info().Msg("watching slot change feed")
			if done := w.follow(ctx, changes); done {
				w.logger.Info().Msg("watcher shutting down")
				return ctx.Err()
			}
			w.logger.Warn().Msg("change feed closed, polling instead")
		}
	}

	return w.poll(ctx)
}

// follow reloads on every change. It reports true when ctx ended and false
// when the feed closed on its own.
func (w *Watcher) follow(ctx context.Context, changes <-chan usecase.SlotChange) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case change, ok := <-changes:
			if !ok {
				return ctx.Err() != nil
			}
			w.logger.Debug().Str("slot", change.Key).Msg("slot changed out of band")
			w.metrics.ObserveSlotChange(SourceNotify)
			w.reload(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	w.logger.Info().Dur("interval", w.interval).Msg("polling slots for changes")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("watcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.checkStale(ctx)
		}
	}
}

func (w *Watcher) checkStale(ctx context.Context) {
	stale, err := w.store.Stale(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to check slots")
		return
	}
	if !stale {
		return
	}
	w.metrics.ObserveSlotChange(SourcePoll)
	w.reload(ctx)
}

func (w *Watcher) reload(ctx context.Context) {
	if err := w.store.Reload(ctx); err != nil {
		w.logger.Error().Err(err).Msg("failed to reload store")
		return
	}
	w.logger.Info().Msg("store reloaded")
}

type noopMetrics struct{}

func (noopMetrics) ObserveSlotChange(string) {}
