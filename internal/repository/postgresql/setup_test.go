package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/ids"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// openTestDB connects to TEST_DATABASE_URL, applies the schema and truncates
// all tables. Tests are skipped when the variable is not set.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, postgresql.EnsureSchema(ctx, db))

	_, err = db.Exec(ctx, "TRUNCATE TABLE daily_records, users CASCADE")
	require.NoError(t, err)
	return db
}

// createTestUser inserts an intern with the given approval state.
func createTestUser(t *testing.T, db *database.DB, email string, approval user.Approval) user.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		ID:           ids.NewUserID(),
		Name:         "Juan",
		Surname:      "Dela Cruz",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         user.RoleIntern,
		Approval:     approval,
	})
	require.NoError(t, err)
	return created
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
