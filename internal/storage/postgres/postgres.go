// Package postgres stores finished battles in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/config"
)

// ApplicationName tags every connection so battle writers show up in pg_stat_activity.
const ApplicationName = "storybattle"

// ErrSchemaMissing is returned by Ready when the battles table has not been migrated.
var ErrSchemaMissing = errors.New("battle history schema missing; run cmd/migrate")

// Pool is the connection pool shared by the battle repository.
type Pool struct {
	pool *pgxpool.Pool
}

// PoolConfig builds the pgx pool configuration for the battle store. Zero
// connection limits keep the pgx defaults.
//
// Postcondition: the returned config tags connections with ApplicationName.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	return poolCfg, nil
}

// NewPool connects to the battle history database.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Ready checks within timeout that the database answers and that the battles
// table exists.
//
// Precondition: The pool must not be closed.
// Postcondition: Returns ErrSchemaMissing when migrations have not been applied.
func (p *Pool) Ready(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT to_regclass('battles') IS NOT NULL`).Scan(&exists); err != nil {
		return fmt.Errorf("checking battle schema: %w", err)
	}
	if !exists {
		return ErrSchemaMissing
	}
	return nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for NewBattleRepository.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
