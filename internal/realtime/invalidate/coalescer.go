// Package invalidate schedules deduplicated cache-refresh requests for the
// resource keys touched by realtime events. Bursts of related events within
// the debounce window collapse into a single refresh per key.
package invalidate

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hoster-project/portal-sync/internal/core/domain"
	"github.com/hoster-project/portal-sync/internal/core/ports"
)

// DefaultDelay is the debounce window between the first invalidation request
// for a key and the refresh it issues.
const DefaultDelay = 120 * time.Millisecond

// Coalescer deduplicates invalidation requests per canonical resource key.
// Invariant: at most one pending timer per key at any time.
type Coalescer struct {
	cache  ports.Cache
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// New creates a coalescer issuing refreshes to the given cache.
func New(cache ports.Cache, delay time.Duration, logger *slog.Logger) *Coalescer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Coalescer{
		cache:   cache,
		delay:   delay,
		logger:  logger.With("component", "invalidation_coalescer"),
		pending: make(map[string]*time.Timer),
	}
}

// Schedule requests a refresh for key. If a timer is already pending for the
// exact key the request coalesces into it; otherwise a refresh fires after the
// debounce delay.
func (c *Coalescer) Schedule(key domain.ResourceKey) {
	canonical := key.Canonical()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if _, exists := c.pending[canonical]; exists {
		return
	}

	c.pending[canonical] = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			return
		}
		delete(c.pending, canonical)
		c.mu.Unlock()

		c.logger.Debug("issuing cache refresh", "key", key.String())
		c.cache.Invalidate(key)
	})
}

// PendingCount returns the number of keys with a live timer.
func (c *Coalescer) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Stop cancels every pending timer and rejects further scheduling. After Stop
// returns no refresh will be issued, so teardown leaves zero outstanding
// timers.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	for canonical, timer := range c.pending {
		timer.Stop()
		delete(c.pending, canonical)
	}
}
