package seed

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/inventory-service/internal/bootstrap"
	"github.com/fairyhunter13/inventory-service/internal/config"
	"github.com/fairyhunter13/inventory-service/internal/inventory"
	"github.com/fairyhunter13/inventory-service/internal/obs"
)

const (
	ownerFlag       = "owner"
	countFlag       = "count"
	databaseURLFlag = "database-url"
)

var seedFlags = map[string]cobraflags.Flag{
	ownerFlag: &cobraflags.StringFlag{
		Name:  ownerFlag,
		Value: "",
		Usage: "Owner id the demo products belong to (required)",
	},
	countFlag: &cobraflags.StringFlag{
		Name:  countFlag,
		Value: "25",
		Usage: "Number of demo products, one per day going back from now",
	},
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: "postgres:// or mysql:// URL (overrides DATABASE_URL)",
	},
}

func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo products for one owner",
		Example: `  inventory-service seed --owner 03f1deb4-3fbc-41cc-8397-f741371fff18
  inventory-service seed --owner demo --count 50 --database-url postgres://localhost/inventory`,
		RunE: seedCommand,
	}
	cobraflags.RegisterMap(cmd, seedFlags)
	return cmd
}

func seedCommand(cmd *cobra.Command, _ []string) error {
	owner := seedFlags[ownerFlag].GetString()
	if owner == "" {
		return fmt.Errorf("--%s is required", ownerFlag)
	}
	count, err := strconv.Atoi(seedFlags[countFlag].GetString())
	if err != nil || count <= 0 {
		return fmt.Errorf("--%s must be a positive integer, got %q", countFlag, seedFlags[countFlag].GetString())
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dsn := seedFlags[databaseURLFlag].GetString(); dsn != "" {
		cfg.DatabaseURL = dsn
	}
	obs.InitLogger(cfg.LogLevel, cfg.LogFormat)

	return Run(cmd.Context(), cfg, owner, count, time.Now(), cmd.OutOrStdout())
}

// Run seeds count demo products for owner into the configured store.
func Run(ctx context.Context, cfg config.Config, owner string, count int, now time.Time, out io.Writer) error {
	repo, err := bootstrap.OpenRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	if repo.Backend == "memory" {
		obs.Logger.Warn("seed_into_memory", "detail", "no DATABASE_URL; products are discarded on exit")
	}
	rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))
	n, err := inventory.Seed(ctx, repo, owner, count, now, rng)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Created %d demo products for user ID: %s\n", n, owner)
	return err
}
