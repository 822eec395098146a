package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

var minorUnits = decimal.NewFromInt(100)

// PaymentService covers payment intents and coupons. Neither is cached.
type PaymentService struct {
	gateway  port.PaymentGateway
	coupons  port.CouponRepository
	currency string
}

func NewPaymentService(gateway port.PaymentGateway, coupons port.CouponRepository, currency string) *PaymentService {
	return &PaymentService{gateway: gateway, coupons: coupons, currency: currency}
}

// CreatePaymentIntent charges amount major units and returns the client secret.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", domain.Validation("Please enter amount")
	}

	intent, err := s.gateway.CreateIntent(ctx, amount.Mul(minorUnits).Round(0).IntPart(), s.currency)
	if err != nil {
		return "", errors.Wrap(err, "create payment intent")
	}
	return intent.ClientSecret, nil
}

func (s *PaymentService) NewCoupon(ctx context.Context, code string, amount decimal.Decimal) (domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" || !amount.IsPositive() {
		return domain.Coupon{}, domain.Validation("Please enter both coupon and amount")
	}

	existing, err := s.coupons.GetCouponByCode(ctx, code)
	if err != nil {
		return domain.Coupon{}, errors.Wrap(err, "get coupon")
	}
	if existing != nil {
		return domain.Coupon{}, domain.Conflict("Coupon %s already exists", code)
	}

	coupon := domain.Coupon{ID: uuid.NewString(), Code: code, Amount: amount}
	if err := s.coupons.CreateCoupon(ctx, coupon); err != nil {
		return domain.Coupon{}, errors.Wrap(err, "create coupon")
	}
	return coupon, nil
}

// ApplyDiscount returns the discount granted by a coupon code.
func (s *PaymentService) ApplyDiscount(ctx context.Context, code string) (decimal.Decimal, error) {
	coupon, err := s.coupons.GetCouponByCode(ctx, code)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "get coupon")
	}
	if coupon == nil {
		return decimal.Zero, domain.Validation("Invalid coupon code")
	}
	return coupon.Amount, nil
}

func (s *PaymentService) AllCoupons(ctx context.Context) ([]domain.Coupon, error) {
	coupons, err := s.coupons.AllCoupons(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list coupons")
	}
	return coupons, nil
}

func (s *PaymentService) Coupon(ctx context.Context, id string) (domain.Coupon, error) {
	coupon, err := s.coupons.GetCoupon(ctx, id)
	if err != nil {
		return domain.Coupon{}, errors.Wrap(err, "get coupon")
	}
	if coupon == nil {
		return domain.Coupon{}, domain.NotFound("Invalid coupon ID")
	}
	return *coupon, nil
}

// UpdateCoupon changes the code and/or amount; empty values are ignored.
func (s *PaymentService) UpdateCoupon(ctx context.Context, id, code string, amount decimal.Decimal) (domain.Coupon, error) {
	coupon, err := s.Coupon(ctx, id)
	if err != nil {
		return domain.Coupon{}, err
	}

	if code = strings.TrimSpace(code); code != "" {
		coupon.Code = code
	}
	if amount.IsPositive() {
		coupon.Amount = amount
	}

	if err := s.coupons.SaveCoupon(ctx, coupon); err != nil {
		return domain.Coupon{}, errors.Wrap(err, "save coupon")
	}
	return coupon, nil
}

func (s *PaymentService) DeleteCoupon(ctx context.Context, id string) (domain.Coupon, error) {
	coupon, err := s.Coupon(ctx, id)
	if err != nil {
		return domain.Coupon{}, err
	}

	if err := s.coupons.DeleteCoupon(ctx, id); err != nil {
		return domain.Coupon{}, errors.Wrap(err, "delete coupon")
	}
	return coupon, nil
}
