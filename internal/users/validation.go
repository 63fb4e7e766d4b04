package users

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describes a single invalid field in a request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates every invalid field in a request.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateUserID coerces a path parameter into a positive integer user id.
func ValidateUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ValidationErrors{{Field: "id", Message: "User ID must be a positive integer"}}
	}
	return id, nil
}

// ValidateUpdate checks every present field of the patch and returns the
// normalized patch. Field errors are aggregated so a client sees all of them
// at once. Email is lowercased and trimmed before any length check so the
// stored value is always normalized.
func ValidateUpdate(req UpdateUserRequest) (UpdateUserRequest, error) {
	if req.IsEmpty() {
		return req, ValidationErrors{{Field: "body", Message: "At least one field must be provided for update"}}
	}

	var errs ValidationErrors

	if req.Name != nil {
		// Length bounds count characters, not bytes.
		name := strings.TrimSpace(*req.Name)
		switch {
		case utf8.RuneCountInString(name) < 2:
			errs = append(errs, FieldError{Field: "name", Message: "Name must be at least 2 characters"})
		case utf8.RuneCountInString(name) > 255:
			errs = append(errs, FieldError{Field: "name", Message: "Name must not exceed 255 characters"})
		default:
			req.Name = &name
		}
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		switch {
		case validate.Var(email, "required,email") != nil:
			errs = append(errs, FieldError{Field: "email", Message: "Invalid email format"})
		case utf8.RuneCountInString(email) > 255:
			errs = append(errs, FieldError{Field: "email", Message: "Email must not exceed 255 characters"})
		default:
			req.Email = &email
		}
	}

	if req.Role != nil {
		if *req.Role != RoleUser && *req.Role != RoleAdmin {
			errs = append(errs, FieldError{Field: "role", Message: "Role must be either 'user' or 'admin'"})
		}
	}

	if len(errs) > 0 {
		return req, errs
	}

	return req, nil
}
