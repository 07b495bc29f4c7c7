package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/logger"
)

// DefaultPruneInterval is how often expired directory listings are dropped
const DefaultPruneInterval = time.Minute

// Pruner drops expired cache entries and reports how many went.
type Pruner interface {
	Prune() int
}

// CachePruner evicts expired directory listings so the cache does not keep
// entries for commands nobody invokes anymore
type CachePruner struct {
	cache    Pruner
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCachePruner creates a new cache pruner
func NewCachePruner(cache Pruner, log logger.Logger, interval time.Duration) *CachePruner {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}

	return &CachePruner{
		cache:    cache,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic pruning process
func (cp *CachePruner) Start(ctx context.Context) {
	ticker := time.NewTicker(cp.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cp.Collect()
			case <-cp.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the pruner
func (cp *CachePruner) Stop() {
	close(cp.stopCh)
}

// Collect removes expired entries and returns how many were dropped
func (cp *CachePruner) Collect() int {
	removed := cp.cache.Prune()

	if removed > 0 {
		cp.logger.Debug("pruned directory cache",
			logger.Int("entries_removed", removed))
	}

	return removed
}
