package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgreDB struct {
	Pool     *pgxpool.Pool
	DBConfig *pgxpool.Config
}

type Config interface {
	GetDSN() string
	PoolLimits() (maxConns, minConns int32, maxConnLifetime, maxConnIdleTime time.Duration)
}

// New opens a pgx pool with the configured limits and pings the database.
func New(ctx context.Context, config Config) (*PostgreDB, error) {
	dbConfig, err := pgxpool.ParseConfig(config.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	maxConns, minConns, lifetime, idle := config.PoolLimits()
	if maxConns > 0 {
		dbConfig.MaxConns = maxConns
	}
	if minConns > 0 {
		dbConfig.MinConns = minConns
	}
	if lifetime > 0 {
		dbConfig.MaxConnLifetime = lifetime
	}
	if idle > 0 {
		dbConfig.MaxConnIdleTime = idle
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgreDB{
		Pool:     pool,
		DBConfig: dbConfig,
	}, nil
}

// Close releases every connection of the pool.
func (p *PostgreDB) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
