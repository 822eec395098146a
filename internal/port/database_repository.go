package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

// ProductFilter narrows a product search. Zero values disable the matching clause.
type ProductFilter struct {
	Search   string
	Category string
	MaxPrice decimal.Decimal
	Sort     string // "asc" or "dsc" by price
	Limit    int
	Offset   int
}

// Lookups return (nil, nil) when the entity does not exist.

type ProductRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SaveProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// LatestProducts returns the newest products first.
	LatestProducts(ctx context.Context, limit int) ([]domain.Product, error)
	AllProducts(ctx context.Context) ([]domain.Product, error)
	FindProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// CountProducts ignores the filter's Limit and Offset.
	CountProducts(ctx context.Context, filter ProductFilter) (int, error)
	Categories(ctx context.Context) ([]string, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	SaveOrder(ctx context.Context, order domain.Order) error
	DeleteOrder(ctx context.Context, id string) error
	OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)

	// FindReview returns the review a user left on a product.
	FindReview(ctx context.Context, userID, productID string) (*domain.Review, error)
	SaveReview(ctx context.Context, review domain.Review) error
	DeleteReview(ctx context.Context, id string) error
	ReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	AllUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type CouponRepository interface {
	CreateCoupon(ctx context.Context, coupon domain.Coupon) error
	GetCoupon(ctx context.Context, id string) (*domain.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	AllCoupons(ctx context.Context) ([]domain.Coupon, error)
	SaveCoupon(ctx context.Context, coupon domain.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error
}

// DatabaseRepository is the whole primary store.
type DatabaseRepository interface {
	ProductRepository
	OrderRepository
	ReviewRepository
	UserRepository
	CouponRepository
}
