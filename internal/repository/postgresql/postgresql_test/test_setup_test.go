package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a connection to the database named by TEST_DATABASE_URL.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects, applies the schema and empties every table. The test is
// skipped when TEST_DATABASE_URL is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	setup := &TestDatabaseSetup{DB: db}
	ctx := context.Background()
	require.NoError(t, db.ApplySchema(ctx))
	require.NoError(t, setup.TruncateAllTables(ctx))

	return setup
}

// TruncateAllTables removes all rows, children first.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE attendances, technicians, tenant_settings, tenants CASCADE"); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
