package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

func seedProducts(t *testing.T, s *MemoryStore) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []domain.Product{
		{ID: "p1", Name: "Gaming Laptop", Category: "laptop", Price: decimal.NewFromInt(900), CreatedAt: base},
		{ID: "p2", Name: "Office Laptop", Category: "laptop", Price: decimal.NewFromInt(400), CreatedAt: base.Add(time.Hour)},
		{ID: "p3", Name: "Camera", Category: "camera", Price: decimal.NewFromInt(600), CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, p := range products {
		require.NoError(t, s.CreateProduct(context.Background(), p))
	}
}

func TestMemoryStore_FindProducts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedProducts(t, s)

	found, err := s.FindProducts(ctx, port.ProductFilter{Search: "LAPTOP", Sort: "asc"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "p2", found[0].ID)

	found, err = s.FindProducts(ctx, port.ProductFilter{MaxPrice: decimal.NewFromInt(650), Sort: "dsc", Limit: 1})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p3", found[0].ID)

	n, err := s.CountProducts(ctx, port.ProductFilter{Category: "laptop", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := s.FindProducts(ctx, port.ProductFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryStore_LatestAndCategories(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedProducts(t, s)

	latest, err := s.LatestProducts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "p3", latest[0].ID)
	assert.Equal(t, "p2", latest[1].ID)

	categories, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"camera", "laptop"}, categories)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateProduct(ctx, domain.Product{ID: "p1", Photos: []domain.Photo{{PublicID: "a"}}}))

	got, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	got.Photos[0].PublicID = "mutated"
	got.Stock = 99

	again, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Photos[0].PublicID)
	assert.Equal(t, 0, again.Stock)
}

func TestMemoryStore_ReviewUniquePerUserAndProduct(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.CreateReview(ctx, domain.Review{ID: "r1", UserID: "u1", ProductID: "p1", Rating: 2}))
	require.NoError(t, s.CreateReview(ctx, domain.Review{ID: "r2", UserID: "u1", ProductID: "p1", Rating: 5}))

	reviews, err := s.ReviewsByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "r1", reviews[0].ID)
	assert.Equal(t, 5, reviews[0].Rating)
}

func TestMemoryStore_CouponCodesUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.CreateCoupon(ctx, domain.Coupon{ID: "c1", Code: "SAVE10", Amount: decimal.NewFromInt(10)}))
	assert.Error(t, s.CreateCoupon(ctx, domain.Coupon{ID: "c2", Code: "SAVE10", Amount: decimal.NewFromInt(5)}))

	c, err := s.GetCouponByCode(ctx, "SAVE10")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "c1", c.ID)

	missing, err := s.GetCoupon(ctx, "c2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
