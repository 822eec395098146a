package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type flakyCache struct {
	mockCache

	mu       sync.Mutex
	failures int
	deleted  [][]string
}

func (f *flakyCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures > 0 {
		f.failures--
		return errors.New("timeout")
	}
	f.deleted = append(f.deleted, keys)
	return nil
}

func TestRetryQueue_RetriesUntilDeleted(t *testing.T) {
	c := &flakyCache{failures: 2}
	q := NewRetryQueue(c, 4, zap.NewNop())
	q.backoff = time.Millisecond
	q.Start(1)

	assert.True(t, q.Enqueue([]string{"product-p1", "all-products"}))
	q.Close()

	assert.Equal(t, [][]string{{"product-p1", "all-products"}}, c.deleted)
}

func TestRetryQueue_GivesUpAfterMaxAttempts(t *testing.T) {
	c := &flakyCache{failures: retryAttempts + 1}
	q := NewRetryQueue(c, 1, zap.NewNop())
	q.backoff = time.Millisecond
	q.Start(1)

	q.Enqueue([]string{"admin-stats"})
	q.Close()

	assert.Empty(t, c.deleted)
}

func TestRetryQueue_RejectsWhenFullOrClosed(t *testing.T) {
	q := NewRetryQueue(&flakyCache{}, 1, zap.NewNop())

	assert.True(t, q.Enqueue([]string{"a"}))
	assert.False(t, q.Enqueue([]string{"b"}), "queue is full without workers")

	q.Start(1)
	q.Close()
	assert.False(t, q.Enqueue([]string{"c"}))
}
