package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// defaultMaxConns bounds the pool; postings hold connections only for
	// short transactions.
	defaultMaxConns = 16

	pingTimeout = 5 * time.Second
)

// NewPgxPool creates a PostgreSQL connection pool for the ledger. When
// pingOnStartup is set the pool is verified before it is handed out, so a
// bad PGSQL_URL fails the boot instead of the first posting.
func NewPgxPool(ctx context.Context, databaseURL string, pingOnStartup bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	// Respect an explicit pool_max_conns in the URL, otherwise cap it.
	if poolCfg.MaxConns <= 0 || poolCfg.MaxConns > defaultMaxConns {
		poolCfg.MaxConns = defaultMaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if pingOnStartup {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	slog.Info("PostgreSQL connection pool established",
		slog.Int("max_conns", int(poolCfg.MaxConns)),
		slog.Bool("pinged", pingOnStartup))
	return pool, nil
}

// ClosePgxPool closes the PostgreSQL connection pool.
func ClosePgxPool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
		slog.Info("PostgreSQL connection pool closed")
	}
}
