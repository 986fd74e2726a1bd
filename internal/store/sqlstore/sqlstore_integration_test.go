//go:build integration

package sqlstore_test

import (
	"context"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/fairyhunter13/inventory-service/internal/bootstrap"
	"github.com/fairyhunter13/inventory-service/internal/database"
	"github.com/fairyhunter13/inventory-service/internal/migrate"
	"github.com/fairyhunter13/inventory-service/internal/store"
	"github.com/fairyhunter13/inventory-service/internal/store/sqlstore"
	"github.com/fairyhunter13/inventory-service/internal/store/storetest"
)

func openMigrated(t *testing.T, envVar string) *database.DB {
	t.Helper()
	dsn := os.Getenv(envVar)
	if dsn == "" {
		t.Skipf("Skipping: %s environment variable not set", envVar)
	}
	c := qt.New(t)
	ctx := context.Background()

	db, err := database.Open(ctx, dsn)
	c.Assert(err, qt.IsNil)
	t.Cleanup(func() { _ = db.Close() })

	c.Assert(bootstrap.Migrate(ctx, db), qt.IsNil)
	// A second run finds nothing pending.
	c.Assert(bootstrap.Migrate(ctx, db), qt.IsNil)

	m, err := migrate.NewEmbedded(db)
	c.Assert(err, qt.IsNil)
	pending, err := m.Pending(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.HasLen, 0)

	status, err := m.Status(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(status.HasPendingChanges, qt.IsFalse)
	return db
}

func TestPostgresRepositoryContract(t *testing.T) {
	db := openMigrated(t, "POSTGRES_TEST_DSN")
	storetest.RunRepositoryContract(t, func(*testing.T) store.Repository {
		return sqlstore.New(db.Gorm)
	})
}

func TestMySQLRepositoryContract(t *testing.T) {
	db := openMigrated(t, "MYSQL_TEST_DSN")
	storetest.RunRepositoryContract(t, func(*testing.T) store.Repository {
		return sqlstore.New(db.Gorm)
	})
}
