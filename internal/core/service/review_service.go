package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type NewReviewInput struct {
	UserID  string `validate:"required"`
	Rating  int    `validate:"min=1,max=5"`
	Comment string `validate:"max=200"`
}

type ReviewService struct {
	reviews     port.ReviewRepository
	products    port.ProductRepository
	users       port.UserRepository
	rt          *cache.ReadThrough
	invalidator *cache.Invalidator
}

func NewReviewService(
	reviews port.ReviewRepository,
	products port.ProductRepository,
	users port.UserRepository,
	rt *cache.ReadThrough,
	invalidator *cache.Invalidator,
) *ReviewService {
	return &ReviewService{
		reviews:     reviews,
		products:    products,
		users:       users,
		rt:          rt,
		invalidator: invalidator,
	}
}

func (s *ReviewService) ProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	return cache.Fetch(ctx, s.rt, cache.ReviewsKey(productID), func(ctx context.Context) ([]domain.Review, error) {
		return s.reviews.ReviewsByProduct(ctx, productID)
	})
}

// NewReview records the user's review of a product. A user has at most one
// review per product: a second submission overwrites the first, and created
// reports which case happened.
func (s *ReviewService) NewReview(ctx context.Context, productID string, in NewReviewInput) (review domain.Review, created bool, err error) {
	if err := validateStruct(in); err != nil {
		return domain.Review{}, false, err
	}

	user, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return domain.Review{}, false, errors.Wrap(err, "get user")
	}
	if user == nil {
		return domain.Review{}, false, domain.Unauthorized("Not logged in")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Review{}, false, errors.Wrap(err, "get product")
	}
	if product == nil {
		return domain.Review{}, false, domain.NotFound("Product not found")
	}

	existing, err := s.reviews.FindReview(ctx, in.UserID, productID)
	if err != nil {
		return domain.Review{}, false, errors.Wrap(err, "find review")
	}

	now := time.Now()
	if existing != nil {
		review = *existing
		review.Rating = in.Rating
		review.Comment = in.Comment
		review.UpdatedAt = now
		if err := s.reviews.SaveReview(ctx, review); err != nil {
			return domain.Review{}, false, errors.Wrap(err, "save review")
		}
	} else {
		review = domain.Review{
			ID:        uuid.NewString(),
			UserID:    in.UserID,
			ProductID: productID,
			Rating:    in.Rating,
			Comment:   in.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.reviews.CreateReview(ctx, review); err != nil {
			return domain.Review{}, false, errors.Wrap(err, "create review")
		}

		// A concurrent review by the same user may have been merged into.
		stored, err := s.reviews.FindReview(ctx, in.UserID, productID)
		if err != nil {
			return domain.Review{}, false, errors.Wrap(err, "find review")
		}
		if stored == nil {
			return domain.Review{}, false, domain.NotFound("Review not found")
		}
		created = stored.ID == review.ID
		review = *stored
	}

	if err := s.refreshRatings(ctx, *product); err != nil {
		return domain.Review{}, false, err
	}
	return review, created, nil
}

// DeleteReview removes a review. Only its author may delete it.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID string) error {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return errors.Wrap(err, "get review")
	}
	if review == nil {
		return domain.NotFound("Review not found")
	}
	if review.UserID != userID {
		return domain.Forbidden("Not authorized")
	}

	if err := s.reviews.DeleteReview(ctx, reviewID); err != nil {
		return errors.Wrap(err, "delete review")
	}

	product, err := s.products.GetProduct(ctx, review.ProductID)
	if err != nil {
		return errors.Wrap(err, "get product")
	}
	if product == nil {
		return s.invalidator.Invalidate(ctx, cache.ReviewChanged{ProductID: review.ProductID})
	}
	return s.refreshRatings(ctx, *product)
}

// refreshRatings writes the recomputed ratings back onto the product and
// evicts the product and its review list together. Like ReduceStock this is a
// load-modify-save without concurrency control.
func (s *ReviewService) refreshRatings(ctx context.Context, product domain.Product) error {
	ratings, err := ComputeRatings(ctx, s.reviews, product.ID)
	if err != nil {
		return err
	}

	product.Rating = float64(ratings.Rating)
	product.NumOfReviews = ratings.NumOfReviews
	product.UpdatedAt = time.Now()

	if err := s.products.SaveProduct(ctx, product); err != nil {
		return errors.Wrap(err, "save product ratings")
	}

	return s.invalidator.Invalidate(ctx,
		cache.Products(product.ID),
		cache.ReviewChanged{ProductID: product.ID},
		cache.AdminChanged{},
	)
}
