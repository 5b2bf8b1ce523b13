// Package db owns the Postgres connection pool and schema migrations for
// the notification engine. The users table is owned by the host procurement
// application and is never created or altered here.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"procure-notify/pkg/config"
)

// PoolConfig holds database connection pool configuration.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns the default connection pool configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// poolConfigFromEnv reads pool settings from the environment, falling back
// to defaults for unset or invalid values.
func poolConfigFromEnv() PoolConfig {
	def := DefaultPoolConfig()
	return PoolConfig{
		MaxOpenConns:    config.GetEnvInt("DB_MAX_OPEN_CONNS", def.MaxOpenConns),
		MaxIdleConns:    config.GetEnvInt("DB_MAX_IDLE_CONNS", def.MaxIdleConns),
		ConnMaxLifetime: config.GetEnvDuration("DB_CONN_MAX_LIFETIME", def.ConnMaxLifetime),
		ConnMaxIdleTime: config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", def.ConnMaxIdleTime),
	}
}

// Open creates and configures a database connection pool from the given DSN,
// verifying connectivity before returning.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	database, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cfg := poolConfigFromEnv()
	database.SetMaxOpenConns(cfg.MaxOpenConns)
	database.SetMaxIdleConns(cfg.MaxIdleConns)
	database.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	database.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connection pool configured",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	return database, nil
}
