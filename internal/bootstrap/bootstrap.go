// Package bootstrap assembles the persistence gateway selected by configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/inventory-service/internal/config"
	"github.com/fairyhunter13/inventory-service/internal/database"
	"github.com/fairyhunter13/inventory-service/internal/migrate"
	"github.com/fairyhunter13/inventory-service/internal/obs"
	"github.com/fairyhunter13/inventory-service/internal/store"
	"github.com/fairyhunter13/inventory-service/internal/store/sqlstore"
)

// Repository is an opened persistence gateway and its release function.
type Repository struct {
	store.Repository
	Backend string
	close   func() error
}

// Close releases the underlying connection pool, if any.
func (r *Repository) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// OpenRepository returns the in-memory store when cfg.DatabaseURL is empty,
// otherwise a gorm store on the configured database. With cfg.AutoMigrate set
// the embedded migrations are applied first.
func OpenRepository(ctx context.Context, cfg config.Config) (*Repository, error) {
	if cfg.DatabaseURL == "" {
		obs.Logger.Info("store_selected", "backend", "memory")
		return &Repository{Repository: store.New(), Backend: "memory"}, nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	obs.Logger.Info("store_selected", "backend", string(db.Dialect))
	return &Repository{Repository: sqlstore.New(db.Gorm), Backend: string(db.Dialect), close: db.Close}, nil
}

// Migrate applies all pending embedded migrations to db.
func Migrate(ctx context.Context, db *database.DB) error {
	m, err := migrate.NewEmbedded(db)
	if err != nil {
		return err
	}
	m = m.WithLogger(obs.Logger.With("component", "migrate"))
	pending, err := m.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	if len(pending) == 0 {
		obs.Logger.Info("migrations_up_to_date", "dialect", string(db.Dialect))
		return nil
	}
	obs.Logger.Info("migrations_pending", "dialect", string(db.Dialect), "versions", pending)
	if err := m.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
