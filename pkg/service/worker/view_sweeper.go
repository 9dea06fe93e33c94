package worker

import (
	"context"
	"time"

	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

// ViewRegistry is the set of mounted network views the sweeper cleans up
type ViewRegistry interface {
	SweepIdle(ctx context.Context, ttl time.Duration) int
}

// ViewSweeper periodically closes network views nobody touched for longer
// than the TTL, releasing their renderers.
//
// Views live in process memory, so each server instance sweeps its own.
type ViewSweeper struct {
	views    ViewRegistry
	ttl      time.Duration
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewViewSweeper creates a sweeper checking every interval
func NewViewSweeper(views ViewRegistry, ttl, interval time.Duration) *ViewSweeper {
	return &ViewSweeper{
		views:    views,
		ttl:      ttl,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop in a background goroutine
func (w *ViewSweeper) Start(ctx context.Context) error {
	logging.Default().Info("view sweeper starting",
		"ttl", w.ttl.String(),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the sweeper to stop and waits for completion
func (w *ViewSweeper) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("view sweeper stopped")
}

func (w *ViewSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("view sweeper context cancelled")
			return
		}
	}
}

func (w *ViewSweeper) sweep(ctx context.Context) {
	if n := w.views.SweepIdle(ctx, w.ttl); n > 0 {
		logging.Default().Info("closed idle network views", "count", n)
	}
}
