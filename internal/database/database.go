// Package database opens the process-wide connection pool behind the SQL
// persistence gateway.
//
// PostgreSQL URLs (postgres://, postgresql://) are served by the pgx stdlib
// driver, MySQL URLs (mysql://) by go-sql-driver/mysql. The resulting *sql.DB
// is wrapped in a gorm.DB for the repository and exposed raw for migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fairyhunter13/inventory-service/internal/obs"
)

// Dialect identifies the SQL flavour behind a connection.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// PoolSettings are connection pool knobs carried in the URL query.
type PoolSettings struct {
	MaxConns int
	MinConns int
}

// DB is an open connection pool.
type DB struct {
	SQL     *sql.DB
	Gorm    *gorm.DB
	Dialect Dialect
}

// DialectOf returns the dialect for a database URL.
func DialectOf(rawURL string) (Dialect, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	default:
		return "", fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// Open connects to the database at rawURL and verifies the connection.
func Open(ctx context.Context, rawURL string) (*DB, error) {
	dialect, err := DialectOf(rawURL)
	if err != nil {
		return nil, err
	}
	cleaned, pool := extractPoolParams(rawURL)

	var (
		sqlDB    *sql.DB
		gormDial gorm.Dialector
	)
	switch dialect {
	case Postgres:
		sqlDB, err = sql.Open("pgx", cleaned)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres connection: %w", err)
		}
		gormDial = gormpostgres.New(gormpostgres.Config{Conn: sqlDB})
	case MySQL:
		cfg, err := MySQLConfig(cleaned)
		if err != nil {
			return nil, err
		}
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create mysql connector: %w", err)
		}
		sqlDB = sql.OpenDB(connector)
		gormDial = gormmysql.New(gormmysql.Config{Conn: sqlDB})
	}

	if pool.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxConns)
	}
	if pool.MinConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MinConns)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	gdb, err := gorm.Open(gormDial, &gorm.Config{Logger: newGormLogger(), TranslateError: true})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	obs.Logger.Info("database_connected", "dialect", string(dialect), "max_conns", pool.MaxConns, "min_conns", pool.MinConns)
	return &DB{SQL: sqlDB, Gorm: gdb, Dialect: dialect}, nil
}

// Close closes the underlying pool.
func (d *DB) Close() error {
	return d.SQL.Close()
}

// MySQLConfig converts a mysql:// URL into a driver configuration with
// time parsing enabled.
func MySQLConfig(rawURL string) (*mysql.Config, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql url: %w", err)
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" && u.Host != "" {
		cfg.Addr = u.Host + ":3306"
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	q := u.Query()
	for key := range q {
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[key] = q.Get(key)
	}
	return cfg, nil
}

// extractPoolParams removes pool_max_conns and pool_min_conns from the URL query
// and returns them as settings. Drivers would otherwise forward them to the server.
func extractPoolParams(rawURL string) (string, PoolSettings) {
	var pool PoolSettings
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL, pool
	}
	q := u.Query()
	if v := q.Get("pool_max_conns"); v != "" {
		pool.MaxConns, _ = strconv.Atoi(v)
	}
	if v := q.Get("pool_min_conns"); v != "" {
		pool.MinConns, _ = strconv.Atoi(v)
	}
	q.Del("pool_max_conns")
	q.Del("pool_min_conns")
	u.RawQuery = q.Encode()
	return u.String(), pool
}

// slogWriter routes gorm's printf-style logs into the service logger.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	obs.Logger.Log(context.Background(), slog.LevelWarn, "gorm", "detail", fmt.Sprintf(format, args...))
}

func newGormLogger() gormlogger.Interface {
	return gormlogger.New(slogWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
