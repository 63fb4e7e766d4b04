package users

import (
	"context"
	"fmt"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	store UserStore
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore) *UserServiceImpl {
	return &UserServiceImpl{
		store: store,
	}
}

// ListUsers returns all users
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}

// GetUser retrieves a user by id
func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id must be positive")
	}
	return s.store.GetUser(ctx, id)
}

// UpdateUser applies a validated patch to a user
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int64, patch UpdateUserRequest) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id must be positive")
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("patch must contain at least one field")
	}
	return s.store.UpdateUser(ctx, id, patch)
}

// DeleteUser removes a user by id
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id must be positive")
	}
	return s.store.DeleteUser(ctx, id)
}
