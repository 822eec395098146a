package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/domain"
)

func TestComputeRatings(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	ratings, err := ComputeRatings(ctx, h.store, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.Ratings{}, ratings)

	for i, r := range []int{5, 4, 4} {
		user := string(rune('a' + i))
		require.NoError(t, h.store.CreateReview(ctx, domain.Review{ID: "r" + user, UserID: user, ProductID: "p1", Rating: r}))
	}

	ratings, err = ComputeRatings(ctx, h.store, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.Ratings{NumOfReviews: 3, Rating: 4}, ratings)
}

func TestNewReview_UpsertsPerUserAndRefreshesProduct(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addProduct(t, "p1", "laptop", 500, 10)
	h.addUser(t, "u1", domain.RoleUser)
	h.addUser(t, "u2", domain.RoleUser)

	_, err := h.reviews.ProductReviews(ctx, "p1")
	require.NoError(t, err)
	_, err = h.products.Product(ctx, "p1")
	require.NoError(t, err)

	first, created, err := h.reviews.NewReview(ctx, "p1", NewReviewInput{UserID: "u1", Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, h.cache.has(t, cache.ReviewsKey("p1")))
	assert.False(t, h.cache.has(t, cache.ProductKey("p1")))

	second, created, err := h.reviews.NewReview(ctx, "p1", NewReviewInput{UserID: "u1", Rating: 2, Comment: "meh"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = h.reviews.NewReview(ctx, "p1", NewReviewInput{UserID: "u2", Rating: 5})
	require.NoError(t, err)

	reviews, err := h.reviews.ProductReviews(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	product, err := h.products.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, product.NumOfReviews)
	assert.Equal(t, float64(3), product.Rating)
	assert.Equal(t, 10, product.Stock)
}

func TestNewReview_Rejections(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addProduct(t, "p1", "laptop", 500, 10)
	h.addUser(t, "u1", domain.RoleUser)

	tests := []struct {
		name      string
		productID string
		input     NewReviewInput
		kind      domain.Kind
	}{
		{name: "rating too high", productID: "p1", input: NewReviewInput{UserID: "u1", Rating: 6}, kind: domain.KindValidation},
		{name: "rating missing", productID: "p1", input: NewReviewInput{UserID: "u1"}, kind: domain.KindValidation},
		{name: "unknown user", productID: "p1", input: NewReviewInput{UserID: "ghost", Rating: 3}, kind: domain.KindUnauthorized},
		{name: "unknown product", productID: "nope", input: NewReviewInput{UserID: "u1", Rating: 3}, kind: domain.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := h.reviews.NewReview(ctx, tt.productID, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
		})
	}

	reviews, err := h.store.ReviewsByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addProduct(t, "p1", "laptop", 500, 10)
	h.addUser(t, "u1", domain.RoleUser)
	h.addUser(t, "u2", domain.RoleUser)

	review, _, err := h.reviews.NewReview(ctx, "p1", NewReviewInput{UserID: "u1", Rating: 4})
	require.NoError(t, err)

	err = h.reviews.DeleteReview(ctx, review.ID, "u2")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	err = h.reviews.DeleteReview(ctx, "missing", "u1")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = h.products.Product(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, h.reviews.DeleteReview(ctx, review.ID, "u1"))
	assert.False(t, h.cache.has(t, cache.ProductKey("p1")))

	product, err := h.products.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, product.NumOfReviews)
	assert.Zero(t, product.Rating)
}

// staleFinder misses the first lookup, as if a concurrent review were not yet
// visible.
type staleFinder struct {
	*storage.MemoryStore
	missed bool
}

func (s *staleFinder) FindReview(ctx context.Context, userID, productID string) (*domain.Review, error) {
	if !s.missed {
		s.missed = true
		return nil, nil
	}
	return s.MemoryStore.FindReview(ctx, userID, productID)
}

func TestNewReview_ConcurrentDuplicateReportsStoredRow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addProduct(t, "p1", "laptop", 500, 10)
	h.addUser(t, "u1", domain.RoleUser)

	first, created, err := h.reviews.NewReview(ctx, "p1", NewReviewInput{UserID: "u1", Rating: 5, Comment: "great"})
	require.NoError(t, err)
	require.True(t, created)

	logger := zap.NewNop()
	reviews := NewReviewService(
		&staleFinder{MemoryStore: h.store},
		h.store,
		h.store,
		cache.NewReadThrough(h.cache, cache.Options{}, nil, logger),
		cache.NewInvalidator(h.cache, nil, nil, logger),
	)

	merged, created, err := reviews.NewReview(ctx, "p1", NewReviewInput{UserID: "u1", Rating: 3, Comment: "changed my mind"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 3, merged.Rating)

	stored, err := h.store.GetReview(ctx, merged.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "changed my mind", stored.Comment)
}
