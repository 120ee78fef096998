package conversation

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner evicts abandoned conversations from a MemoryStore on a schedule,
// bounding the memory held by users who simply stop replying.
type Cleaner struct {
	store    *MemoryStore
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(store *MemoryStore, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		store:    store,
		log:      log,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.store == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("conversation cleaner stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-c.ttl)
			if evicted := c.store.evictBefore(cutoff); evicted > 0 {
				c.log.Info("abandoned conversations evicted", slog.Int("count", evicted))
			}
		}
	}
}
