package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter()

	_, ok, err := m.Get(ctx, "categories")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "categories", `["laptop"]`, 0))
	require.NoError(t, m.Set(ctx, "product-1", `{}`, 0))

	value, ok, err := m.Get(ctx, "categories")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["laptop"]`, value)

	require.NoError(t, m.Delete(ctx, "categories", "product-1", "absent"))
	assert.Equal(t, 0, m.Len())
}

func TestMemoryAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryAdapter()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "short", "v", time.Minute))
	require.NoError(t, m.Set(ctx, "forever", "v", 0))

	now = now.Add(2 * time.Minute)

	_, ok, _ := m.Get(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryAdapter_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryAdapter()
	m.now = func() time.Time { return now }

	ok, err := m.SetIfAbsent(ctx, "request-order-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.SetIfAbsent(ctx, "request-order-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(2 * time.Hour)
	ok, err = m.SetIfAbsent(ctx, "request-order-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}
