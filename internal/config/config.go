// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Auth modes understood by the identity adapter.
const (
	AuthModeHeader = "header"
	AuthModeToken  = "token"
)

// Config holds configuration knobs for the HTTP server, persistence and dashboard.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	GinMode         string

	// DatabaseURL selects the persistence gateway. Empty keeps products in memory.
	DatabaseURL string
	AutoMigrate bool

	LogLevel  string
	LogFormat string

	AuthMode   string
	AuthTokens string
	SignInURL  string

	LowStockDefault int64
	TrendWeeks      int
	MonthlyMonths   int
	RecentLimit     int
	PageSize        int
}

func defaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("shutdown_timeout", 15)
	v.SetDefault("gin_mode", "release")
	v.SetDefault("database_url", "")
	v.SetDefault("auto_migrate", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("auth_mode", AuthModeHeader)
	v.SetDefault("auth_tokens", "")
	v.SetDefault("sign_in_url", "/sign-in")
	v.SetDefault("low_stock_default", 5)
	v.SetDefault("trend_weeks", 12)
	v.SetDefault("monthly_months", 6)
	v.SetDefault("recent_limit", 5)
	v.SetDefault("page_size", 15)
}

// Load collects configuration from defaults, an optional CONFIG_FILE and the
// environment, in increasing order of precedence.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		HTTPAddr:        v.GetString("http_addr"),
		ShutdownTimeout: time.Duration(v.GetInt("shutdown_timeout")) * time.Second,
		GinMode:         v.GetString("gin_mode"),
		DatabaseURL:     v.GetString("database_url"),
		AutoMigrate:     v.GetBool("auto_migrate"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		AuthMode:        v.GetString("auth_mode"),
		AuthTokens:      v.GetString("auth_tokens"),
		SignInURL:       v.GetString("sign_in_url"),
		LowStockDefault: v.GetInt64("low_stock_default"),
		TrendWeeks:      v.GetInt("trend_weeks"),
		MonthlyMonths:   v.GetInt("monthly_months"),
		RecentLimit:     v.GetInt("recent_limit"),
		PageSize:        v.GetInt("page_size"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch c.AuthMode {
	case AuthModeHeader, AuthModeToken:
	default:
		return fmt.Errorf("invalid AUTH_MODE %q: expected %q or %q", c.AuthMode, AuthModeHeader, AuthModeToken)
	}
	if c.AuthMode == AuthModeToken && c.AuthTokens == "" {
		return fmt.Errorf("AUTH_TOKENS is required when AUTH_MODE is %q", AuthModeToken)
	}
	if c.LowStockDefault < 0 {
		return fmt.Errorf("LOW_STOCK_DEFAULT must be >= 0, got %d", c.LowStockDefault)
	}
	if c.TrendWeeks <= 0 {
		return fmt.Errorf("TREND_WEEKS must be > 0, got %d", c.TrendWeeks)
	}
	if c.MonthlyMonths <= 0 {
		return fmt.Errorf("MONTHLY_MONTHS must be > 0, got %d", c.MonthlyMonths)
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("RECENT_LIMIT must be > 0, got %d", c.RecentLimit)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be > 0, got %d", c.PageSize)
	}
	return nil
}
