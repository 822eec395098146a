package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// ReduceStock subtracts each line's quantity from its product, one line at a
// time. The first missing product aborts with NotFound, and lines already
// applied are not restored. Each line is a plain load-subtract-save, so two
// concurrent reductions of the same product can lose an update.
func ReduceStock(ctx context.Context, products port.ProductRepository, lines []domain.OrderItem) error {
	for _, line := range lines {
		product, err := products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return errors.Wrapf(err, "load product %s", line.ProductID)
		}
		if product == nil {
			return domain.NotFound("Product not found: %s", line.ProductID)
		}

		product.Stock -= line.Quantity
		product.UpdatedAt = time.Now()

		if err := products.SaveProduct(ctx, *product); err != nil {
			return errors.Wrapf(err, "save product %s", line.ProductID)
		}
	}
	return nil
}
