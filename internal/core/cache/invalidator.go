package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// Invalidator evicts the cache keys made stale by a write.
type Invalidator struct {
	cache   port.CacheRepository
	retry   *RetryQueue
	metrics Recorder
	logger  *zap.Logger
}

// NewInvalidator builds an Invalidator. retry may be nil, in which case failed
// evictions are only reported.
func NewInvalidator(cache port.CacheRepository, retry *RetryQueue, metrics Recorder, logger *zap.Logger) *Invalidator {
	return &Invalidator{
		cache:   cache,
		retry:   retry,
		metrics: recorderOrNop(metrics),
		logger:  logger,
	}
}

// Invalidate deletes the union of the events' keys in a single call. Only the
// identifiers carried by the events are evicted; the store is never consulted.
func (inv *Invalidator) Invalidate(ctx context.Context, events ...Event) error {
	keys := Keys(events...)
	if len(keys) == 0 {
		return nil
	}

	if err := inv.cache.Delete(ctx, keys...); err != nil {
		inv.metrics.InvalidationFailed()
		queued := inv.retry != nil && inv.retry.Enqueue(keys)
		inv.logger.Error("cache invalidation failed",
			zap.Strings("keys", keys),
			zap.Bool("retry_queued", queued),
			zap.Error(err))
		return domain.CacheUnavailable(err, "invalidate cache")
	}

	inv.metrics.KeysInvalidated(len(keys))
	inv.logger.Debug("cache invalidated", zap.Strings("keys", keys))
	return nil
}
