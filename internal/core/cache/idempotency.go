package cache

import (
	"context"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	idempotencyKeyPrefix = "request-"
	idempotencyKeyTTL    = 24 * time.Hour
)

// Idempotency rejects replays of a client-supplied request id.
type Idempotency struct {
	cache port.CacheRepository
}

func NewIdempotency(cache port.CacheRepository) *Idempotency {
	return &Idempotency{cache: cache}
}

// Claim records requestID. It fails with a Conflict when the id was seen
// within the last 24 hours.
func (i *Idempotency) Claim(ctx context.Context, scope, requestID string) error {
	ok, err := i.cache.SetIfAbsent(ctx, idempotencyKey(scope, requestID), idempotencyKeyTTL)
	if err != nil {
		return domain.CacheUnavailable(err, "idempotency check")
	}
	if !ok {
		return domain.Conflict("duplicate request")
	}
	return nil
}

// Release forgets a claimed requestID so the request can be retried.
func (i *Idempotency) Release(ctx context.Context, scope, requestID string) error {
	if err := i.cache.Delete(ctx, idempotencyKey(scope, requestID)); err != nil {
		return domain.CacheUnavailable(err, "idempotency release")
	}
	return nil
}

func idempotencyKey(scope, requestID string) string {
	return idempotencyKeyPrefix + scope + "-" + requestID
}
