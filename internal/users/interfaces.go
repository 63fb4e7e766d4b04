package users

import (
	"context"
)

// UserStore defines the interface for user storage operations. Every call
// returns the sanitized user projection or a typed not-found error; the
// store is the sole owner of persisted user state.
type UserStore interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	UpdateUser(ctx context.Context, id int64, patch UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id int64) (*User, error)
}

// UserService defines the interface for user service operations
type UserService interface {
	UserStore
}
