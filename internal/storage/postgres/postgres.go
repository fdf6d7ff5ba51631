// Package postgres persists encounter reports in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/config"
)

// Pool owns the pgx pool shared by the repositories.
type Pool struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// Open connects to PostgreSQL and verifies the connection with a ping.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a reachable Pool or a non-nil error; no connections
// are leaked on failure.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	if logger == nil {
		panic("postgres.Open: logger must not be nil")
	}
	start := time.Now()
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	logger.Info("database connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Pool{db: db, logger: logger}, nil
}

// Ping checks that the database answers within timeout.
func (p *Pool) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.db.Ping(ctx)
}

// Reports returns an encounter report repository backed by this pool.
func (p *Pool) Reports() *EncounterReportRepository {
	return NewEncounterReportRepository(p.db)
}

// Close logs the pool's usage and releases every connection.
func (p *Pool) Close() {
	st := p.db.Stat()
	p.logger.Debug("closing database pool",
		zap.Int64("acquires", st.AcquireCount()),
		zap.Int32("total_conns", st.TotalConns()),
	)
	p.db.Close()
}
