package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/domain"
)

const userColumns = `id, name, email, photo, role, gender, dob, created_at, updated_at`

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Photo, &u.Role, &u.Gender, &u.DOB, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (m *MySQLAdapter) CreateUser(ctx context.Context, u domain.User) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Photo, u.Role, u.Gender, u.DOB, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (m *MySQLAdapter) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := lookup(row, scanUser)
	if err != nil {
		return nil, errors.Wrap(err, "query user")
	}
	return u, nil
}

func (m *MySQLAdapter) AllUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	return collect(rows, scanUser)
}

func (m *MySQLAdapter) DeleteUser(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete user")
	}
	return nil
}
