package storage

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const productColumns = `id, name, category, price, stock, rating, num_of_reviews, photos, created_at, updated_at`

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var photos []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Rating,
		&p.NumOfReviews, &photos, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal(photos, &p.Photos); err != nil {
		return domain.Product{}, errors.Wrap(err, "decode photos")
	}
	return p, nil
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p domain.Product) error {
	photos, err := json.Marshal(p.Photos)
	if err != nil {
		return errors.Wrap(err, "encode photos")
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Category, p.Price, p.Stock, p.Rating, p.NumOfReviews, photos,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert product")
	}
	return nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := lookup(row, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "query product")
	}
	return p, nil
}

func (m *MySQLAdapter) SaveProduct(ctx context.Context, p domain.Product) error {
	photos, err := json.Marshal(p.Photos)
	if err != nil {
		return errors.Wrap(err, "encode photos")
	}

	_, err = m.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, category = ?, price = ?, stock = ?, rating = ?, num_of_reviews = ?,
		    photos = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Category, p.Price, p.Stock, p.Rating, p.NumOfReviews, photos, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	return nil
}

func (m *MySQLAdapter) DeleteProduct(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}

func (m *MySQLAdapter) LatestProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query latest products")
	}
	return collect(rows, scanProduct)
}

func (m *MySQLAdapter) AllProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return collect(rows, scanProduct)
}

func (m *MySQLAdapter) FindProducts(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	where, args := productWhere(filter)

	query := `SELECT ` + productColumns + ` FROM products` + where
	switch filter.Sort {
	case "asc":
		query += ` ORDER BY price ASC`
	case "dsc", "desc":
		query += ` ORDER BY price DESC`
	}
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	return collect(rows, scanProduct)
}

func (m *MySQLAdapter) CountProducts(ctx context.Context, filter port.ProductFilter) (int, error) {
	where, args := productWhere(filter)

	var n int
	if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count products")
	}
	return n, nil
}

func (m *MySQLAdapter) Categories(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, errors.Wrap(err, "query categories")
	}
	return collect(rows, func(row rowScanner) (string, error) {
		var category string
		err := row.Scan(&category)
		return category, err
	})
}

func productWhere(filter port.ProductFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Search != "" {
		clauses = append(clauses, `LOWER(name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Category != "" {
		clauses = append(clauses, `category = ?`)
		args = append(args, strings.ToLower(filter.Category))
	}
	if filter.MaxPrice.IsPositive() {
		clauses = append(clauses, `price <= ?`)
		args = append(args, filter.MaxPrice)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(clauses, ` AND `), args
}
