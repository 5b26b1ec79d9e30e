package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salusapp/salus_backend/config"
)

// DSN builds a PostgreSQL connection string from config.
func DSN(cfg config.DatabaseConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslmode,
	)
}

// New opens a pgx connection pool and verifies connectivity.
func New(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.Pool.MaxConns > 0 {
		pc.MaxConns = int32(cfg.Pool.MaxConns)
	}
	if cfg.Pool.MinConns > 0 {
		pc.MinConns = int32(cfg.Pool.MinConns)
	}
	if cfg.Pool.ConnMaxLifetimeMin > 0 {
		pc.MaxConnLifetime = time.Duration(cfg.Pool.ConnMaxLifetimeMin) * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
