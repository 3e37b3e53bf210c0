// Package database opens the relational store and applies its schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"wiki-quiz/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers "sqlite"
)

const (
	pgxDriverName    = "pgx"
	sqliteDriverName = "sqlite"
)

func init() {
	sqlx.BindDriver(sqliteDriverName, sqlx.QUESTION)
}

// DriverName maps a configured db.driver to the database/sql driver name.
func DriverName(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return pgxDriverName, nil
	case config.DriverSQLite:
		return sqliteDriverName, nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Driver, err)
	}

	if cfg.DB.Driver == config.DriverSQLite {
		// single writer; concurrent requests queue on the pool
		db.SetMaxOpenConns(1)
	} else if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		db.SetMaxIdleConns(cfg.DB.MaxOpenConns / 2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DB.Driver, err)
	}

	return db, nil
}
