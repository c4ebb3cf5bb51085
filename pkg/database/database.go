package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the subset of *pgxpool.Pool the application depends on.
// pgxmock.PgxPoolIface satisfies it as well.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// NewPool opens and pings the pool described by dsn.
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", config.ConnConfig.Database, err)
	}

	logger.Info("database connected", slog.String("database", config.ConnConfig.Database))

	return pool, nil
}

// TenantPoolFactory returns a PoolFactory that derives each tenant's
// connection settings from baseDSN, swapping in the tenant database name.
// Pools are bounded to maxConns connections; acquirers beyond that wait.
// Connections are opened lazily on first use.
func TenantPoolFactory(baseDSN string, maxConns int32) (PoolFactory, error) {
	base, err := pgxpool.ParseConfig(baseDSN)
	if err != nil {
		return nil, fmt.Errorf("parse tenant dsn: %w", err)
	}
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}

	return func(ctx context.Context, dbName string) (Pool, error) {
		cfg := base.Copy()
		cfg.ConnConfig.Database = dbName
		cfg.MaxConns = maxConns
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}, nil
}
