package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/port"
)

const (
	retryAttempts       = 5
	retryAttemptTimeout = 5 * time.Second
	retryBaseBackoff    = 200 * time.Millisecond
)

// RetryQueue re-issues evictions that failed on the request path, so a
// transient cache outage does not leave stale entries behind for a whole TTL.
type RetryQueue struct {
	cache  port.CacheRepository
	queue  chan []string
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	backoff time.Duration
}

func NewRetryQueue(cache port.CacheRepository, queueSize int, logger *zap.Logger) *RetryQueue {
	return &RetryQueue{
		cache:   cache,
		queue:   make(chan []string, queueSize),
		logger:  logger,
		backoff: retryBaseBackoff,
	}
}

// Enqueue schedules keys for eviction without blocking. It returns false when
// the queue is full or closed.
func (q *RetryQueue) Enqueue(keys []string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.queue <- keys:
		return true
	default:
		q.logger.Warn("invalidation retry queue full, dropping keys", zap.Strings("keys", keys))
		return false
	}
}

// Start launches the worker pool.
func (q *RetryQueue) Start(workers int) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			q.workerLoop(id)
		}(i)
	}
	q.logger.Info("started invalidation retry workers", zap.Int("workers", workers))
}

// Close stops accepting keys, drains the queue and waits for the workers.
func (q *RetryQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.queue)
	}
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *RetryQueue) workerLoop(id int) {
	for keys := range q.queue {
		var err error
		for attempt := 1; attempt <= retryAttempts; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), retryAttemptTimeout)
			err = q.cache.Delete(ctx, keys...)
			cancel()

			if err == nil {
				q.logger.Info("retried invalidation succeeded",
					zap.Int("worker", id),
					zap.Int("attempt", attempt),
					zap.Strings("keys", keys))
				break
			}
			time.Sleep(q.backoff * time.Duration(attempt))
		}

		if err != nil {
			q.logger.Error("CRITICAL invalidation retries exhausted, entries may stay stale until TTL",
				zap.Int("worker", id),
				zap.Strings("keys", keys),
				zap.Error(err))
		}
	}
}
