package users

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// UserIndexes are created on startup alongside the table
var UserIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users (role)`,
	`CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at)`,
}

// CreateTables creates the users table if it does not exist
func CreateTables(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*UserSchema)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}

// CreateIndexes creates all necessary indexes for the users table
func CreateIndexes(ctx context.Context, db *bun.DB) error {
	for _, indexSQL := range UserIndexes {
		_, err := db.ExecContext(ctx, indexSQL)
		if err != nil {
			return fmt.Errorf("failed to create index with SQL %q: %w", indexSQL, err)
		}
	}

	return nil
}
