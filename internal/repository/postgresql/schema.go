package postgresql

import (
	"context"
	_ "embed"

	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the users and daily_records tables if they are missing.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return database.Unavailable("ensure schema", err)
	}
	return nil
}
