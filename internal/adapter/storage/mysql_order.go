package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/domain"
)

const orderColumns = `id, user_id, shipping_info, order_items, subtotal, tax, discount, shipping_charges, total, status, created_at, updated_at`

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var shipping, items []byte
	if err := row.Scan(&o.ID, &o.UserID, &shipping, &items, &o.Subtotal, &o.Tax, &o.Discount,
		&o.ShippingCharges, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(shipping, &o.ShippingInfo); err != nil {
		return domain.Order{}, errors.Wrap(err, "decode shipping info")
	}
	if err := json.Unmarshal(items, &o.OrderItems); err != nil {
		return domain.Order{}, errors.Wrap(err, "decode order items")
	}
	return o, nil
}

func encodeOrder(o domain.Order) (shipping, items []byte, err error) {
	if shipping, err = json.Marshal(o.ShippingInfo); err != nil {
		return nil, nil, errors.Wrap(err, "encode shipping info")
	}
	if items, err = json.Marshal(o.OrderItems); err != nil {
		return nil, nil, errors.Wrap(err, "encode order items")
	}
	return shipping, items, nil
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, o domain.Order) error {
	shipping, items, err := encodeOrder(o)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, shipping, items, o.Subtotal, o.Tax, o.Discount, o.ShippingCharges,
		o.Total, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	return nil
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := lookup(row, scanOrder)
	if err != nil {
		return nil, errors.Wrap(err, "query order")
	}
	return o, nil
}

func (m *MySQLAdapter) SaveOrder(ctx context.Context, o domain.Order) error {
	shipping, items, err := encodeOrder(o)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		UPDATE orders
		SET shipping_info = ?, order_items = ?, subtotal = ?, tax = ?, discount = ?,
		    shipping_charges = ?, total = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		shipping, items, o.Subtotal, o.Tax, o.Discount, o.ShippingCharges, o.Total, o.Status,
		o.UpdatedAt, o.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	return nil
}

func (m *MySQLAdapter) DeleteOrder(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete order")
	}
	return nil
}

func (m *MySQLAdapter) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "query user orders")
	}
	return collect(rows, scanOrder)
}

func (m *MySQLAdapter) AllOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	return collect(rows, scanOrder)
}
