package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// UserSchema represents the users table schema in PostgreSQL
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Name      string    `bun:"name,notnull" json:"name"`
	Role      string    `bun:"role,notnull,default:'user'" json:"role"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// PostgresStore implements the UserStore interface
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new PostgreSQL user store
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// ListUsers returns all users in id order
func (s *PostgresStore) ListUsers(ctx context.Context) ([]User, error) {
	var schemas []UserSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, NewStoreError("list users", err)
	}

	result := make([]User, len(schemas))
	for i, schema := range schemas {
		result[i] = UserSchemaToUser(schema)
	}
	return result, nil
}

// GetUser retrieves a user by id
func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*User, error) {
	var schema UserSchema
	err := s.db.NewSelect().
		Model(&schema).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(id)
		}
		return nil, NewStoreError("get user", err)
	}

	user := UserSchemaToUser(schema)
	return &user, nil
}

// UpdateUser merges the present patch fields into the row, refreshes
// updated_at and returns the post-update projection. Unspecified fields are
// not touched.
func (s *PostgresStore) UpdateUser(ctx context.Context, id int64, patch UpdateUserRequest) (*User, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	q := s.db.NewUpdate().
		Model((*UserSchema)(nil)).
		Where("id = ?", id).
		Set("updated_at = ?", time.Now())

	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.Role != nil {
		q = q.Set("role = ?", *patch.Role)
	}

	schema := new(UserSchema)
	_, err := q.Returning("*").Exec(ctx, schema)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(id)
		}
		return nil, NewStoreError("update user", err)
	}

	user := UserSchemaToUser(*schema)
	return &user, nil
}

// DeleteUser removes the row and returns the pre-deletion projection
func (s *PostgresStore) DeleteUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.db.NewDelete().
		Model((*UserSchema)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, NewStoreError("delete user", err)
	}

	return user, nil
}

// UserSchemaToUser converts a database row into the client-facing projection
func UserSchemaToUser(schema UserSchema) User {
	return User{
		ID:        schema.ID,
		Email:     schema.Email,
		Name:      schema.Name,
		Role:      schema.Role,
		CreatedAt: schema.CreatedAt,
		UpdatedAt: schema.UpdatedAt,
	}
}
