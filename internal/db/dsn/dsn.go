// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tourmarket/tourmarket/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(cfg config.DB) string {
	switch cfg.Engine {
	case config.EnginePostgres:
		return Postgres(cfg)
	case config.EngineSQLite:
		return SQLite(cfg)
	default:
		return MySQL(cfg)
	}
}

// MySQL builds a go-sql-driver DSN. parseTime is always enabled so
// timestamps scan into time.Time.
func MySQL(cfg config.DB) string {
	extras := "parseTime=true"
	if cfg.Extras != "" {
		extras = cfg.Extras
		if !strings.Contains(extras, "parseTime") {
			extras += "&parseTime=true"
		}
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		extras,
	)
}

// Postgres builds a postgres URL.
func Postgres(cfg config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: cfg.Extras,
	}

	return u.String()
}

// SQLite builds a file DSN. Name is the database file.
func SQLite(cfg config.DB) string {
	if cfg.Extras == "" {
		return "file:" + cfg.Name
	}

	return "file:" + cfg.Name + "?" + cfg.Extras
}
