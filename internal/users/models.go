package users

import (
	"time"
)

// Role values a user can hold
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the client-facing projection of a user row. Only the declared
// public attributes are ever returned to clients.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateUserRequest is a partial update. Nil fields are left untouched.
// At least one field must be present; an all-nil patch is a validation
// error, not a no-op.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (r UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Role == nil
}
