package users

import (
	"errors"
	"fmt"
)

// User error types
const (
	UserErrorTypeNotFound       = "not_found"
	UserErrorTypeInvalidRequest = "invalid_request"
)

// UserError represents errors related to user operations
type UserError struct {
	Type    string
	UserID  int64
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s] for user %d: %s (caused by: %v)", e.Type, e.UserID, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s] for user %d: %s", e.Type, e.UserID, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// NewUserNotFoundError creates an error for when a user is not found
func NewUserNotFoundError(userID int64) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		UserID:  userID,
		Message: "user not found",
	}
}

// IsNotFound reports whether err is a user-not-found error. Callers branch on
// this rather than matching error strings.
func IsNotFound(err error) bool {
	var ue *UserError
	return errors.As(err, &ue) && ue.Type == UserErrorTypeNotFound
}

// StoreError represents errors raised by the persistence engine
type StoreError struct {
	Operation string
	Cause     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Operation, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError wraps an underlying storage failure
func NewStoreError(operation string, cause error) *StoreError {
	return &StoreError{
		Operation: operation,
		Cause:     cause,
	}
}
