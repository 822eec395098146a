package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const DefaultTTL = time.Hour

type Options struct {
	// TTL applies to every populated entry. Zero keeps entries until invalidated.
	TTL time.Duration

	// FailOpen serves reads straight from the store when the cache cannot be
	// reached instead of failing the request.
	FailOpen bool
}

// ReadThrough holds the shared policy of every cached accessor.
type ReadThrough struct {
	cache    port.CacheRepository
	ttl      time.Duration
	failOpen bool
	metrics  Recorder
	logger   *zap.Logger
}

func NewReadThrough(cache port.CacheRepository, opts Options, metrics Recorder, logger *zap.Logger) *ReadThrough {
	return &ReadThrough{
		cache:    cache,
		ttl:      opts.TTL,
		failOpen: opts.FailOpen,
		metrics:  recorderOrNop(metrics),
		logger:   logger,
	}
}

// Fetch returns the value cached under key, or loads it, stores its JSON
// encoding with the configured TTL and returns it. Misses return the decoded
// stored form so callers see the same value on hit and miss. Load errors are
// returned as is and nothing is cached.
func Fetch[T any](ctx context.Context, rt *ReadThrough, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	family := Family(key)

	raw, ok, err := rt.cache.Get(ctx, key)
	if err != nil {
		if !rt.failOpen {
			return zero, domain.CacheUnavailable(err, "read cache")
		}
		rt.logger.Warn("cache read failed, serving from store", zap.String("key", key), zap.Error(err))
		return load(ctx)
	}

	if ok {
		var value T
		decodeErr := json.Unmarshal([]byte(raw), &value)
		if decodeErr == nil {
			rt.metrics.CacheHit(family)
			return value, nil
		}
		rt.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(decodeErr))
	}
	rt.metrics.CacheMiss(family)

	fresh, err := load(ctx)
	if err != nil {
		return zero, err
	}

	data, err := json.Marshal(fresh)
	if err != nil {
		return zero, errors.Wrapf(err, "encode %s", key)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, errors.Wrapf(err, "decode %s", key)
	}

	if err := rt.cache.Set(ctx, key, string(data), rt.ttl); err != nil {
		rt.metrics.CachePopulateFailed(family)
		rt.logger.Error("cache population failed", zap.String("key", key), zap.Error(err))
	}

	return value, nil
}
