package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/domain"
)

const reviewColumns = `id, user_id, product_id, rating, comment, created_at, updated_at`

func scanReview(row rowScanner) (domain.Review, error) {
	var r domain.Review
	err := row.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// CreateReview inserts a review. The unique (user_id, product_id) key turns a
// concurrent duplicate into an update of the existing row.
func (m *MySQLAdapter) CreateReview(ctx context.Context, r domain.Review) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE rating = VALUES(rating), comment = VALUES(comment), updated_at = VALUES(updated_at)`,
		r.ID, r.UserID, r.ProductID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert review")
	}
	return nil
}

func (m *MySQLAdapter) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)
	r, err := lookup(row, scanReview)
	if err != nil {
		return nil, errors.Wrap(err, "query review")
	}
	return r, nil
}

func (m *MySQLAdapter) FindReview(ctx context.Context, userID, productID string) (*domain.Review, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id = ? AND product_id = ?`, userID, productID)
	r, err := lookup(row, scanReview)
	if err != nil {
		return nil, errors.Wrap(err, "query review")
	}
	return r, nil
}

func (m *MySQLAdapter) SaveReview(ctx context.Context, r domain.Review) error {
	_, err := m.db.ExecContext(ctx,
		`UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE id = ?`,
		r.Rating, r.Comment, r.UpdatedAt, r.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update review")
	}
	return nil
}

func (m *MySQLAdapter) DeleteReview(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete review")
	}
	return nil
}

func (m *MySQLAdapter) ReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE product_id = ? ORDER BY updated_at DESC`, productID)
	if err != nil {
		return nil, errors.Wrap(err, "query product reviews")
	}
	return collect(rows, scanReview)
}
