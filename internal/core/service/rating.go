package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// ComputeRatings returns the review count of a product and the floor of its
// average rating, 0 when it has no reviews.
func ComputeRatings(ctx context.Context, reviews port.ReviewRepository, productID string) (domain.Ratings, error) {
	list, err := reviews.ReviewsByProduct(ctx, productID)
	if err != nil {
		return domain.Ratings{}, errors.Wrap(err, "list reviews")
	}

	if len(list) == 0 {
		return domain.Ratings{}, nil
	}

	var total int
	for _, review := range list {
		total += review.Rating
	}

	return domain.Ratings{
		NumOfReviews: len(list),
		Rating:       total / len(list),
	}, nil
}
