package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/models"
)

// UserService manages the user directory. Every authenticated user can read
// it; a user can only change or delete their own record.
type UserService struct {
	users UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create adds a user to the directory without issuing a token.
func (s *UserService) Create(ctx context.Context, in NewUser) (*models.User, error) {
	return createUser(ctx, s.users, in)
}

// Update changes the caller's own record. Updating someone else yields
// models.ErrForbidden, an empty patch models.ErrValidation.
func (s *UserService) Update(ctx context.Context, callerID, id int64, p models.UserPatch) (*models.User, error) {
	if p.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}
	if callerID != id {
		return nil, fmt.Errorf("update user %d: %w", id, models.ErrForbidden)
	}

	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		p.Email = &email
	}
	if p.DisplayName != nil {
		name := strings.TrimSpace(*p.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: displayName must not be empty", models.ErrValidation)
		}
		p.DisplayName = &name
	}
	if p.Password != nil {
		if *p.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", models.ErrValidation)
		}
		hash, err := auth.HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = &hash
		p.Password = nil
	}

	return s.users.Update(ctx, id, p)
}

// Delete removes the caller's own record. Users who still own tasks cannot
// be deleted (models.ErrConflict).
func (s *UserService) Delete(ctx context.Context, callerID, id int64) error {
	if callerID != id {
		return fmt.Errorf("delete user %d: %w", id, models.ErrForbidden)
	}
	return s.users.Delete(ctx, id)
}
