package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/domain"
)

func scanCoupon(row rowScanner) (domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Amount)
	return c, err
}

func (m *MySQLAdapter) CreateCoupon(ctx context.Context, c domain.Coupon) error {
	_, err := m.db.ExecContext(ctx, `INSERT INTO coupons (id, code, amount) VALUES (?, ?, ?)`, c.ID, c.Code, c.Amount)
	if err != nil {
		return errors.Wrap(err, "insert coupon")
	}
	return nil
}

func (m *MySQLAdapter) GetCoupon(ctx context.Context, id string) (*domain.Coupon, error) {
	row := m.db.QueryRowContext(ctx, `SELECT id, code, amount FROM coupons WHERE id = ?`, id)
	c, err := lookup(row, scanCoupon)
	if err != nil {
		return nil, errors.Wrap(err, "query coupon")
	}
	return c, nil
}

func (m *MySQLAdapter) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	row := m.db.QueryRowContext(ctx, `SELECT id, code, amount FROM coupons WHERE code = ?`, code)
	c, err := lookup(row, scanCoupon)
	if err != nil {
		return nil, errors.Wrap(err, "query coupon by code")
	}
	return c, nil
}

func (m *MySQLAdapter) AllCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, code, amount FROM coupons ORDER BY code`)
	if err != nil {
		return nil, errors.Wrap(err, "query coupons")
	}
	return collect(rows, scanCoupon)
}

func (m *MySQLAdapter) SaveCoupon(ctx context.Context, c domain.Coupon) error {
	if _, err := m.db.ExecContext(ctx, `UPDATE coupons SET code = ?, amount = ? WHERE id = ?`, c.Code, c.Amount, c.ID); err != nil {
		return errors.Wrap(err, "update coupon")
	}
	return nil
}

func (m *MySQLAdapter) DeleteCoupon(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete coupon")
	}
	return nil
}
