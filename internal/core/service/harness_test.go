package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/blobstore"
	"github.com/rl1809/storefront/internal/adapter/payment"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/domain"
)

// recordingCache remembers every eviction it is asked to perform.
type recordingCache struct {
	*storage.MemoryAdapter

	mu      sync.Mutex
	deleted []string
}

func (r *recordingCache) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	r.deleted = append(r.deleted, keys...)
	r.mu.Unlock()
	return r.MemoryAdapter.Delete(ctx, keys...)
}

func (r *recordingCache) evicted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleted...)
}

func (r *recordingCache) reset() {
	r.mu.Lock()
	r.deleted = nil
	r.mu.Unlock()
}

func (r *recordingCache) has(t *testing.T, key string) bool {
	t.Helper()
	_, ok, err := r.Get(context.Background(), key)
	require.NoError(t, err)
	return ok
}

type harness struct {
	store *storage.MemoryStore
	cache *recordingCache
	blobs *blobstore.Bucket
	seq   int

	products *ProductService
	orders   *OrderService
	reviews  *ReviewService
	users    *UserService
	payments *PaymentService
	stats    *StatsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := zap.NewNop()
	store := storage.NewMemoryStore()
	c := &recordingCache{MemoryAdapter: storage.NewMemoryAdapter()}

	blobs, err := blobstore.Open(context.Background(), "mem://", "http://cdn.test", logger)
	require.NoError(t, err)
	t.Cleanup(func() { blobs.Close() })

	rt := cache.NewReadThrough(c, cache.Options{}, nil, logger)
	inv := cache.NewInvalidator(c, nil, nil, logger)
	idem := cache.NewIdempotency(c)

	return &harness{
		store:    store,
		cache:    c,
		blobs:    blobs,
		products: NewProductService(store, blobs, rt, inv, 2, logger),
		orders:   NewOrderService(store, store, rt, inv, idem),
		reviews:  NewReviewService(store, store, store, rt, inv),
		users:    NewUserService(store, inv),
		payments: NewPaymentService(payment.Offline{}, store, "inr"),
		stats:    NewStatsService(store, store, store, rt),
	}
}

func (h *harness) addProduct(t *testing.T, id, category string, price int64, stock int) domain.Product {
	t.Helper()
	h.seq++
	created := time.Date(2024, time.January, 1, 0, h.seq, 0, 0, time.UTC)
	p := domain.Product{
		ID:        id,
		Name:      "Product " + id,
		Category:  category,
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		Photos:    []domain.Photo{{PublicID: "products/" + id + ".jpg", URL: "http://cdn.test/products/" + id + ".jpg"}},
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, h.store.CreateProduct(context.Background(), p))
	return p
}

func (h *harness) addUser(t *testing.T, id string, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{
		ID:        id,
		Name:      "User " + id,
		Email:     id + "@example.com",
		Role:      role,
		Gender:    domain.GenderFemale,
		DOB:       time.Date(1995, 4, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, h.store.CreateUser(context.Background(), u))
	return u
}

func (h *harness) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := h.store.GetProduct(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}
