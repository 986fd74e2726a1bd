// Package main is the inventory-service command line.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/inventory-service/cmd/migrate"
	"github.com/fairyhunter13/inventory-service/cmd/seed"
	"github.com/fairyhunter13/inventory-service/cmd/serve"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "inventory-service",
		Short: "Multi-tenant product inventory service",
		Long: `inventory-service tracks products per signed-in user and reports
dashboard metrics over them.

Available commands:
  serve    - Run the HTTP API
  migrate  - Manage database migrations
  seed     - Insert demo products`,
		SilenceUsage: true,
	}
	root.AddCommand(serve.NewServeCommand())
	root.AddCommand(migrate.NewMigrateCommand())
	root.AddCommand(seed.NewSeedCommand())
	return root
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
