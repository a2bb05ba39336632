package ttl

import (
	"context"
	"time"

	"heart-risk/internal/metrics"

	"go.uber.org/zap"
)

// Store is what the cleaner needs from a cache backend.
type Store interface {
	RemoveExpired() int
}

// Cleaner periodically evicts expired prediction cache entries.
type Cleaner struct {
	store    Store
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Registry
}

func NewCleaner(
	store Store,
	interval time.Duration,
	logger *zap.Logger,
	reg *metrics.Registry,
) *Cleaner {
	return &Cleaner{
		store:    store,
		interval: interval,
		logger:   logger,
		metrics:  reg,
	}
}

// Start blocks, running a cleanup every interval until ctx is cancelled.
func (c *Cleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runOnce()
		case <-ctx.Done():
			c.logger.Debug("ttl cleaner stopped")
			return
		}
	}
}

func (c *Cleaner) runOnce() {
	c.metrics.Inc(metrics.TTLCleanupRunsTotal)

	removed := c.store.RemoveExpired()
	if removed > 0 {
		c.metrics.Add(metrics.TTLKeysRemovedTotal, int64(removed))
		c.logger.Debug("ttl cleaner removed expired predictions", zap.Int("removed", removed))
	}
}
