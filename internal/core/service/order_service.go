package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type NewOrderInput struct {
	UserID          string `validate:"required"`
	ShippingInfo    domain.ShippingInfo
	OrderItems      []domain.OrderItem `validate:"required,min=1,dive"`
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Discount        decimal.Decimal
	ShippingCharges decimal.Decimal
	Total           decimal.Decimal
}

func (in NewOrderInput) checkAmounts() error {
	if !in.Subtotal.IsPositive() || !in.Total.IsPositive() {
		return domain.Validation("subtotal and total must be greater than 0")
	}
	if in.Tax.IsNegative() || in.Discount.IsNegative() || in.ShippingCharges.IsNegative() {
		return domain.Validation("tax, discount and shipping charges must not be negative")
	}
	return nil
}

type OrderService struct {
	orders      port.OrderRepository
	products    port.ProductRepository
	rt          *cache.ReadThrough
	invalidator *cache.Invalidator
	idempotency *cache.Idempotency
}

func NewOrderService(
	orders port.OrderRepository,
	products port.ProductRepository,
	rt *cache.ReadThrough,
	invalidator *cache.Invalidator,
	idempotency *cache.Idempotency,
) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		rt:          rt,
		invalidator: invalidator,
		idempotency: idempotency,
	}
}

// NewOrder places an order and takes its lines out of stock. A non-empty
// requestID makes retries of the same request fail with a Conflict.
//
// Stock is reduced after the order is stored and line by line; see ReduceStock.
// The caches are invalidated even when the reduction stops halfway, since the
// lines applied before the failure have already changed the products.
func (s *OrderService) NewOrder(ctx context.Context, in NewOrderInput, requestID string) (domain.Order, error) {
	if err := validateStruct(in); err != nil {
		return domain.Order{}, err
	}
	if err := in.checkAmounts(); err != nil {
		return domain.Order{}, err
	}

	if requestID != "" {
		if err := s.idempotency.Claim(ctx, "order", requestID); err != nil {
			return domain.Order{}, err
		}
	}

	now := time.Now()
	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		ShippingInfo:    in.ShippingInfo,
		OrderItems:      in.OrderItems,
		Subtotal:        in.Subtotal,
		Tax:             in.Tax,
		Discount:        in.Discount,
		ShippingCharges: in.ShippingCharges,
		Total:           in.Total,
		Status:          domain.OrderStatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if requestID != "" {
			// Nothing was stored, so the same request may be retried. A failed
			// release leaves the claim to expire.
			_ = s.idempotency.Release(ctx, "order", requestID)
		}
		return domain.Order{}, errors.Wrap(err, "create order")
	}

	stockErr := ReduceStock(ctx, s.products, order.OrderItems)

	invalidateErr := s.invalidator.Invalidate(ctx,
		cache.Products(order.ProductIDs()...),
		cache.OrderChanged{UserID: order.UserID, OrderID: order.ID},
		cache.AdminChanged{},
	)

	if stockErr != nil {
		return domain.Order{}, stockErr
	}
	if invalidateErr != nil {
		return order, invalidateErr
	}
	return order, nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.Validation("user id is required")
	}
	return cache.Fetch(ctx, s.rt, cache.MyOrdersKey(userID), func(ctx context.Context) ([]domain.Order, error) {
		return s.orders.OrdersByUser(ctx, userID)
	})
}

func (s *OrderService) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return cache.Fetch(ctx, s.rt, cache.KeyAllOrders, s.orders.AllOrders)
}

func (s *OrderService) Order(ctx context.Context, id string) (domain.Order, error) {
	return cache.Fetch(ctx, s.rt, cache.OrderKey(id), func(ctx context.Context) (domain.Order, error) {
		return s.load(ctx, id)
	})
}

// ProcessOrder advances the order one step towards Delivered.
func (s *OrderService) ProcessOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	order.Status = order.Status.Next()
	order.UpdatedAt = time.Now()

	if err := s.orders.SaveOrder(ctx, order); err != nil {
		return domain.Order{}, errors.Wrap(err, "save order")
	}

	if err := s.invalidator.Invalidate(ctx,
		cache.OrderChanged{UserID: order.UserID, OrderID: order.ID},
		cache.AdminChanged{},
	); err != nil {
		return order, err
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		return errors.Wrap(err, "delete order")
	}

	return s.invalidator.Invalidate(ctx,
		cache.OrderChanged{UserID: order.UserID, OrderID: order.ID},
		cache.AdminChanged{},
	)
}

func (s *OrderService) load(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "get order")
	}
	if order == nil {
		return domain.Order{}, domain.NotFound("Order not found")
	}
	return *order, nil
}
