package storage

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/port"
)

type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      10,
	}
}

// BreakerCache fails cache calls fast while the backing cache keeps erroring.
// An open breaker surfaces as an error like any other cache failure.
type BreakerCache struct {
	next port.CacheRepository
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerCache(next port.CacheRepository, cfg BreakerConfig, logger *zap.Logger) *BreakerCache {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &BreakerCache{next: next, cb: cb}
}

type getResult struct {
	value string
	ok    bool
}

func (b *BreakerCache) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		value, ok, err := b.next.Get(ctx, key)
		return getResult{value: value, ok: ok}, err
	})
	if err != nil {
		return "", false, err
	}

	r := res.(getResult)
	return r.value, r.ok, nil
}

func (b *BreakerCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Set(ctx, key, value, ttl)
	})
	return err
}

func (b *BreakerCache) Delete(ctx context.Context, keys ...string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, keys...)
	})
	return err
}

func (b *BreakerCache) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.SetIfAbsent(ctx, key, ttl)
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

// State reports the breaker state for health checks.
func (b *BreakerCache) State() gobreaker.State {
	return b.cb.State()
}
