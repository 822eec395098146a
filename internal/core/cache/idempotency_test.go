package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
)

func TestIdempotency_Claim(t *testing.T) {
	ctx := context.Background()
	idem := NewIdempotency(storage.NewMemoryAdapter())

	require.NoError(t, idem.Claim(ctx, "order", "req-1"))

	err := idem.Claim(ctx, "order", "req-1")
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	assert.NoError(t, idem.Claim(ctx, "order", "req-2"))
	assert.NoError(t, idem.Claim(ctx, "payment", "req-1"))
}

func TestIdempotency_Release(t *testing.T) {
	ctx := context.Background()
	idem := NewIdempotency(storage.NewMemoryAdapter())

	require.NoError(t, idem.Claim(ctx, "order", "req-1"))
	require.NoError(t, idem.Release(ctx, "order", "req-1"))
	assert.NoError(t, idem.Claim(ctx, "order", "req-1"))
}

func TestIdempotency_CacheDown(t *testing.T) {
	c := new(mockCache)
	c.On("SetIfAbsent", mock.Anything, "request-order-req-1", 24*time.Hour).Return(false, errors.New("refused"))

	err := NewIdempotency(c).Claim(context.Background(), "order", "req-1")
	require.Error(t, err)
	assert.Equal(t, domain.KindCacheUnavailable, domain.KindOf(err))
}
