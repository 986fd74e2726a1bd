package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/inventory-service/internal/auth"
	"github.com/fairyhunter13/inventory-service/internal/bootstrap"
	"github.com/fairyhunter13/inventory-service/internal/config"
	httpapi "github.com/fairyhunter13/inventory-service/internal/http"
	"github.com/fairyhunter13/inventory-service/internal/http/openapi"
	"github.com/fairyhunter13/inventory-service/internal/inventory"
	"github.com/fairyhunter13/inventory-service/internal/obs"
)

const (
	addrFlag        = "addr"
	databaseURLFlag = "database-url"
)

var serveFlags = map[string]cobraflags.Flag{
	addrFlag: &cobraflags.StringFlag{
		Name:  addrFlag,
		Value: "",
		Usage: "Listen address (overrides HTTP_ADDR)",
	},
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: "postgres:// or mysql:// URL (overrides DATABASE_URL); empty keeps products in memory",
	},
}

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the inventory HTTP API until SIGINT or SIGTERM.

Configuration comes from the environment (HTTP_ADDR, DATABASE_URL, AUTH_MODE, ...)
and an optional CONFIG_FILE; flags override both.`,
		RunE: serveCommand,
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr := serveFlags[addrFlag].GetString(); addr != "" {
		cfg.HTTPAddr = addr
	}
	if dsn := serveFlags[databaseURLFlag].GetString(); dsn != "" {
		cfg.DatabaseURL = dsn
	}

	obs.InitLogger(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)
	obs.Logger.Info("service_starting", "auth_mode", cfg.AuthMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := bootstrap.OpenRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			obs.Logger.Error("store_close_error", "error", err)
		}
	}()

	provider, err := auth.NewProvider(cfg)
	if err != nil {
		return err
	}
	doc, err := openapi.Load(ctx)
	if err != nil {
		return err
	}

	app := httpapi.NewApp(cfg, inventory.NewService(repo), provider, doc)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr, "store", repo.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		obs.Logger.Info("shutdown_signal")
		app.StartShutdown()

		ctxSrv, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxSrv); err != nil {
			obs.Logger.Error("http_shutdown_error", "error", err)
			return err
		}
		return nil
	})

	err = g.Wait()
	obs.Logger.Info("service_stopped")
	return err
}
