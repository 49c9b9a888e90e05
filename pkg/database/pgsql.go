package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 5 * time.Second

// NewPgxPool opens the pool backing the postgres run store and verifies it with a ping.
func NewPgxPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("Connected to PostgreSQL run store")
	return pool, nil
}

// ClosePgxPool closes pool if it is non-nil.
func ClosePgxPool(ctx context.Context, pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	log := logger.FromContext(ctx)
	log.Info().Msg("PostgreSQL connection pool closed")
}
