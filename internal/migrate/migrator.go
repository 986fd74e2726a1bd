// Package migrate applies the versioned SQL migrations that create the
// products schema.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/go-extras/go-kit/must"

	"github.com/fairyhunter13/inventory-service/internal/database"
	"github.com/fairyhunter13/inventory-service/internal/obs"
)

//go:embed sql/schema.sql
var migrationsSchemaSQL string

//go:embed sql/postgres/*.sql sql/mysql/*.sql
var embedded embed.FS

const getVersionSQL = "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"

// Status represents the current state of migrations
type Status struct {
	CurrentVersion    int   `json:"current_version"`
	PendingMigrations []int `json:"pending_migrations"`
	TotalMigrations   int   `json:"total_migrations"`
	HasPendingChanges bool  `json:"has_pending_changes"`
}

// Migrator applies migrations to a database.
type Migrator struct {
	db          *sql.DB
	dialect     database.Dialect
	provider    Provider
	initialized bool
	logger      *slog.Logger
}

// EmbeddedProvider returns the bundled migrations for dialect.
func EmbeddedProvider(dialect database.Dialect) (*FSProvider, error) {
	switch dialect {
	case database.Postgres, database.MySQL:
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
	return NewFSProvider(must.Must(fs.Sub(embedded, "sql/"+string(dialect))))
}

// New creates a migrator over db using provider.
func New(db *sql.DB, dialect database.Dialect, provider Provider) *Migrator {
	return &Migrator{
		db:       db,
		dialect:  dialect,
		provider: provider,
		logger:   obs.Logger,
	}
}

// NewEmbedded creates a migrator with the bundled migrations for the connection's dialect.
func NewEmbedded(conn *database.DB) (*Migrator, error) {
	provider, err := EmbeddedProvider(conn.Dialect)
	if err != nil {
		return nil, err
	}
	return New(conn.SQL, conn.Dialect, provider), nil
}

// WithLogger sets the logger for the migrator
func (m *Migrator) WithLogger(l *slog.Logger) *Migrator {
	tmp := *m
	tmp.logger = l
	return &tmp
}

// Initialize creates the migrations table if it doesn't exist
func (m *Migrator) Initialize(ctx context.Context) error {
	if m.initialized {
		return nil
	}
	if _, err := m.db.ExecContext(ctx, migrationsSchemaSQL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	m.initialized = true
	return nil
}

// CurrentVersion returns the highest applied migration version, 0 when none.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	if err := m.Initialize(ctx); err != nil {
		return 0, err
	}
	var version int
	if err := m.db.QueryRowContext(ctx, getVersionSQL).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// Pending returns the versions newer than the current one.
func (m *Migrator) Pending(ctx context.Context) ([]int, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	return pendingAfter(m.provider.Migrations(), current), nil
}

// Status returns information about the current migration status.
func (m *Migrator) Status(ctx context.Context) (*Status, error) {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	migrations := m.provider.Migrations()
	pending := pendingAfter(migrations, current)
	return &Status{
		CurrentVersion:    current,
		PendingMigrations: pending,
		TotalMigrations:   len(migrations),
		HasPendingChanges: len(pending) > 0,
	}, nil
}

// Up migrates the database up to the latest version.
func (m *Migrator) Up(ctx context.Context) error {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	migrations := m.provider.Migrations()
	m.logger.Info("migrate_up", "current_version", current, "total_migrations", len(migrations))

	for _, mig := range migrations {
		if mig.Version <= current {
			continue
		}
		if err := m.apply(ctx, mig, true); err != nil {
			return err
		}
	}
	m.logger.Info("migrate_up_complete")
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		return fmt.Errorf("no previous migrations exist")
	}
	return m.DownTo(ctx, previousVersion(m.provider.Migrations(), current))
}

// DownTo rolls back every applied migration newer than target.
func (m *Migrator) DownTo(ctx context.Context, target int) error {
	current, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	if target >= current {
		m.logger.Info("migrate_down_skipped", "target_version", target, "current_version", current)
		return nil
	}

	migrations := slices.Clone(m.provider.Migrations())
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version > migrations[j].Version
	})
	m.logger.Info("migrate_down", "target_version", target, "current_version", current)

	for _, mig := range migrations {
		if mig.Version <= target || mig.Version > current {
			continue
		}
		if err := m.apply(ctx, mig, false); err != nil {
			return err
		}
	}
	return nil
}

// apply runs one direction of mig and records it in a single transaction.
func (m *Migrator) apply(ctx context.Context, mig *Migration, up bool) error {
	action := "apply"
	if !up {
		action = "revert"
	}
	m.logger.Info("migration_"+action, "version", mig.Version, "description", mig.Description)

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", mig.Version, err)
	}

	fn, record, args := mig.Down, m.deleteSQL(), []any{mig.Version}
	if up {
		fn, record, args = mig.Up, m.recordSQL(), []any{mig.Version, mig.Description, time.Now().UTC()}
	}

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to %s migration %d: %w", action, mig.Version, err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", mig.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for migration %d: %w", mig.Version, err)
	}
	return nil
}

func (m *Migrator) recordSQL() string {
	if m.dialect == database.Postgres {
		return "INSERT INTO schema_migrations (version, description, applied_at) VALUES ($1, $2, $3)"
	}
	return "INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)"
}

func (m *Migrator) deleteSQL() string {
	if m.dialect == database.Postgres {
		return "DELETE FROM schema_migrations WHERE version = $1"
	}
	return "DELETE FROM schema_migrations WHERE version = ?"
}

func pendingAfter(migrations []*Migration, current int) []int {
	pending := make([]int, 0)
	for _, mig := range migrations {
		if mig.Version > current {
			pending = append(pending, mig.Version)
		}
	}
	sort.Ints(pending)
	return pending
}

// previousVersion returns the highest version below current, 0 when none.
func previousVersion(migrations []*Migration, current int) int {
	prev := 0
	for _, mig := range migrations {
		if mig.Version >= current {
			break
		}
		prev = mig.Version
	}
	return prev
}
