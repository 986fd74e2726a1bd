package migrate

import (
	"encoding/json"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/inventory-service/internal/config"
	"github.com/fairyhunter13/inventory-service/internal/database"
	"github.com/fairyhunter13/inventory-service/internal/migrate"
	"github.com/fairyhunter13/inventory-service/internal/obs"
)

const databaseURLFlag = "database-url"

var migrateFlags = map[string]cobraflags.Flag{
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: "postgres:// or mysql:// URL (overrides DATABASE_URL)",
	},
}

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
		Long: `Manage the embedded SQL migrations of the products database.

Available subcommands:
  up      - Apply every pending migration
  down    - Roll back the most recent migration
  status  - Print the current version and pending migrations as JSON`,
	}
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: withMigrator(func(cmd *cobra.Command, m *migrate.Migrator) error {
			return m.Up(cmd.Context())
		}),
	}
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withMigrator(func(cmd *cobra.Command, m *migrate.Migrator) error {
			return m.Down(cmd.Context())
		}),
	}
	status := &cobra.Command{
		Use:   "status",
		Short: "Print migration status",
		RunE: withMigrator(func(cmd *cobra.Command, m *migrate.Migrator) error {
			st, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		}),
	}
	for _, sub := range []*cobra.Command{up, down, status} {
		cobraflags.RegisterMap(sub, migrateFlags)
		cmd.AddCommand(sub)
	}
	return cmd
}

func databaseURL() (string, error) {
	if dsn := migrateFlags[databaseURLFlag].GetString(); dsn != "" {
		return dsn, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("no database configured: set DATABASE_URL or --%s", databaseURLFlag)
	}
	return cfg.DatabaseURL, nil
}

func withMigrator(run func(*cobra.Command, *migrate.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		dsn, err := databaseURL()
		if err != nil {
			return err
		}
		db, err := database.Open(cmd.Context(), dsn)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				obs.Logger.Error("database_close_error", "error", err)
			}
		}()
		m, err := migrate.NewEmbedded(db)
		if err != nil {
			return err
		}
		return run(cmd, m)
	}
}
