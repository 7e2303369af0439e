package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/hotel-staff-service/internal/config"
)

// ErrNotConfigured is returned when the datastore DSN was never supplied.
var ErrNotConfigured = errors.New("tenant datastore not configured: DATASTORE_DSN is not set")

// Postgres wraps access to a pgx connection pool opened with the
// elevated service credential.
type Postgres struct {
	Pool *pgxpool.Pool
}

// ServiceRole is the elevated datastore capability. It can only be
// obtained from a Postgres wrapper and is handed to repository
// constructors; it must never be reachable from request-facing types,
// since writes through it bypass row-level tenant isolation.
type ServiceRole struct {
	pool *pgxpool.Pool
}

// Handle exposes the underlying pool to repository constructors.
func (s ServiceRole) Handle() *pgxpool.Pool {
	return s.pool
}

// NewPostgres establishes a connection pool when a DSN is provided.
// An absent DSN is deliberately not fatal: the process starts and every
// request touching the datastore fails with ErrNotConfigured instead.
func NewPostgres(ctx context.Context, cfg config.DatastoreConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		logger.Warn("DATASTORE_DSN not provided; requests requiring the datastore will fail")
		return &Postgres{Pool: nil}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to tenant datastore")
	return &Postgres{Pool: pool}, nil
}

// ServiceRole returns the elevated capability for repository wiring.
func (p *Postgres) ServiceRole() ServiceRole {
	if p == nil {
		return ServiceRole{}
	}
	return ServiceRole{pool: p.Pool}
}

// Ping verifies datastore connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return ErrNotConfigured
	}
	return p.Pool.Ping(ctx)
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}
