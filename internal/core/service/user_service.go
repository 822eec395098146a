package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type NewUserInput struct {
	ID     string    `validate:"required"`
	Name   string    `validate:"required"`
	Email  string    `validate:"required,email"`
	Photo  string    `validate:"required"`
	Gender string    `validate:"required,oneof=male female"`
	DOB    time.Time `validate:"required"`
}

type UserService struct {
	users       port.UserRepository
	invalidator *cache.Invalidator
}

func NewUserService(users port.UserRepository, invalidator *cache.Invalidator) *UserService {
	return &UserService{users: users, invalidator: invalidator}
}

// NewUser registers a user. When the id is already known the stored user is
// returned and created is false.
func (s *UserService) NewUser(ctx context.Context, in NewUserInput) (user domain.User, created bool, err error) {
	existing, err := s.users.GetUser(ctx, in.ID)
	if err != nil {
		return domain.User{}, false, errors.Wrap(err, "get user")
	}
	if existing != nil {
		return *existing, false, nil
	}

	if err := validateStruct(in); err != nil {
		return domain.User{}, false, err
	}

	now := time.Now()
	user = domain.User{
		ID:        in.ID,
		Name:      in.Name,
		Email:     in.Email,
		Photo:     in.Photo,
		Role:      domain.RoleUser,
		Gender:    domain.Gender(in.Gender),
		DOB:       in.DOB,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, false, errors.Wrap(err, "create user")
	}

	if err := s.invalidator.Invalidate(ctx, cache.AdminChanged{}); err != nil {
		return user, true, err
	}
	return user, true, nil
}

func (s *UserService) User(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, errors.Wrap(err, "get user")
	}
	if user == nil {
		return domain.User{}, domain.NotFound("Invalid Id")
	}
	return *user, nil
}

func (s *UserService) AllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.AllUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.User(ctx, id); err != nil {
		return err
	}

	if err := s.users.DeleteUser(ctx, id); err != nil {
		return errors.Wrap(err, "delete user")
	}

	return s.invalidator.Invalidate(ctx, cache.AdminChanged{})
}

// Authorize admits only callers whose id belongs to an admin.
func (s *UserService) Authorize(ctx context.Context, id string) error {
	if id == "" {
		return domain.Unauthorized("Please login first as admin")
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return errors.Wrap(err, "get user")
	}
	if user == nil {
		return domain.Unauthorized("Invalid ID")
	}
	if user.Role != domain.RoleAdmin {
		return domain.Forbidden("You are not admin")
	}
	return nil
}
