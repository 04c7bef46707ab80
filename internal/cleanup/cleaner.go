package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/nebula-guide/internal/metrics"
)

// Sweeper removes idle wizard sessions
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Cleaner handles periodic cleanup of idle wizard sessions
type Cleaner struct {
	store    Sweeper
	interval time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(store Sweeper, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		store:    store,
		interval: interval,
	}
}

// Run sweeps on every tick until ctx is cancelled
func (c *Cleaner) Run(ctx context.Context) error {
	slog.Info("cleanup worker started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Run immediately on start
	c.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return nil
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	slog.Debug("running cleanup cycle")

	removed, err := c.store.Sweep(ctx)
	if err != nil {
		slog.Error("failed to sweep idle sessions", "error", err)
		return
	}

	if removed == 0 {
		slog.Debug("no idle sessions found")
		return
	}

	metrics.RecordSessionsSwept(removed)
	slog.Info("idle sessions removed", "count", removed)
}
