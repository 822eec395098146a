package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *mockCache) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

type countingRecorder struct {
	hits, misses, populateFailed, invalidated, invalidationFailed int
}

func (r *countingRecorder) CacheHit(string)            { r.hits++ }
func (r *countingRecorder) CacheMiss(string)           { r.misses++ }
func (r *countingRecorder) CachePopulateFailed(string) { r.populateFailed++ }
func (r *countingRecorder) KeysInvalidated(n int)      { r.invalidated += n }
func (r *countingRecorder) InvalidationFailed()        { r.invalidationFailed++ }
