package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
)

type item struct {
	Name  string    `json:"name"`
	Stock int       `json:"stock"`
	At    time.Time `json:"at"`
}

func countingLoader(value item) (func(context.Context) (item, error), *int) {
	calls := 0
	return func(context.Context) (item, error) {
		calls++
		return value, nil
	}, &calls
}

func TestFetch_MissThenHit(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	rt := NewReadThrough(storage.NewMemoryAdapter(), Options{}, rec, zap.NewNop())

	load, calls := countingLoader(item{Name: "Desk", Stock: 3, At: time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC)})

	first, err := Fetch(ctx, rt, ProductKey("p1"), load)
	require.NoError(t, err)
	second, err := Fetch(ctx, rt, ProductKey("p1"), load)
	require.NoError(t, err)

	assert.Equal(t, 1, *calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, 1, rec.hits)
}

func TestFetch_MissAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	c := storage.NewMemoryAdapter()
	rt := NewReadThrough(c, Options{}, nil, zap.NewNop())
	inv := NewInvalidator(c, nil, nil, zap.NewNop())

	stock := 5
	load := func(context.Context) (item, error) { return item{Stock: stock}, nil }

	got, err := Fetch(ctx, rt, ProductKey("p1"), load)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	stock = 2
	got, _ = Fetch(ctx, rt, ProductKey("p1"), load)
	assert.Equal(t, 5, got.Stock, "served from cache until invalidated")

	require.NoError(t, inv.Invalidate(ctx, Products("p1")))
	got, err = Fetch(ctx, rt, ProductKey("p1"), load)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestFetch_SetsConfiguredTTL(t *testing.T) {
	c := new(mockCache)
	c.On("Get", mock.Anything, KeyCategories).Return("", false, nil)
	c.On("Set", mock.Anything, KeyCategories, `["camera","laptop"]`, 30*time.Minute).Return(nil).Once()

	rt := NewReadThrough(c, Options{TTL: 30 * time.Minute}, nil, zap.NewNop())
	got, err := Fetch(context.Background(), rt, KeyCategories, func(context.Context) ([]string, error) {
		return []string{"camera", "laptop"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"camera", "laptop"}, got)
	c.AssertExpectations(t)
}

func TestFetch_ReadFailureIsCacheUnavailable(t *testing.T) {
	c := new(mockCache)
	c.On("Get", mock.Anything, KeyAllProducts).Return("", false, errors.New("dial tcp: refused"))

	rt := NewReadThrough(c, Options{}, nil, zap.NewNop())
	load, calls := countingLoader(item{})

	_, err := Fetch(context.Background(), rt, KeyAllProducts, load)
	require.Error(t, err)
	assert.Equal(t, domain.KindCacheUnavailable, domain.KindOf(err))
	assert.Equal(t, 0, *calls)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetch_FailOpenServesStore(t *testing.T) {
	c := new(mockCache)
	c.On("Get", mock.Anything, KeyAllProducts).Return("", false, errors.New("dial tcp: refused"))

	rt := NewReadThrough(c, Options{FailOpen: true}, nil, zap.NewNop())
	load, calls := countingLoader(item{Name: "Desk"})

	got, err := Fetch(context.Background(), rt, KeyAllProducts, load)
	require.NoError(t, err)
	assert.Equal(t, "Desk", got.Name)
	assert.Equal(t, 1, *calls)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetch_PopulateFailureStillReturnsValue(t *testing.T) {
	c := new(mockCache)
	c.On("Get", mock.Anything, ProductKey("p1")).Return("", false, nil)
	c.On("Set", mock.Anything, ProductKey("p1"), mock.Anything, mock.Anything).Return(errors.New("OOM"))

	rec := &countingRecorder{}
	rt := NewReadThrough(c, Options{}, rec, zap.NewNop())

	got, err := Fetch(context.Background(), rt, ProductKey("p1"), func(context.Context) (item, error) {
		return item{Name: "Desk"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Desk", got.Name)
	assert.Equal(t, 1, rec.populateFailed)
}

func TestFetch_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := storage.NewMemoryAdapter()
	rt := NewReadThrough(c, Options{}, nil, zap.NewNop())

	_, err := Fetch(ctx, rt, ProductKey("missing"), func(context.Context) (item, error) {
		return item{}, domain.NotFound("Product not found")
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, 0, c.Len())
}

func TestFetch_CorruptEntryReloaded(t *testing.T) {
	ctx := context.Background()
	c := storage.NewMemoryAdapter()
	require.NoError(t, c.Set(ctx, ProductKey("p1"), "{not json", 0))

	rt := NewReadThrough(c, Options{}, nil, zap.NewNop())
	load, calls := countingLoader(item{Name: "Desk"})

	got, err := Fetch(ctx, rt, ProductKey("p1"), load)
	require.NoError(t, err)
	assert.Equal(t, "Desk", got.Name)
	assert.Equal(t, 1, *calls)

	raw, ok, _ := c.Get(ctx, ProductKey("p1"))
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"Desk","stock":0,"at":"0001-01-01T00:00:00Z"}`, raw)
}
