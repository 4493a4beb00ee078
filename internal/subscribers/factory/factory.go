// Package factory builds subscriber stores from configuration.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/torqlabs/torq-news/internal/config"
	"github.com/torqlabs/torq-news/internal/subscribers"
	"github.com/torqlabs/torq-news/internal/subscribers/in_mem"
	"github.com/torqlabs/torq-news/internal/subscribers/pg"
	"github.com/torqlabs/torq-news/internal/subscribers/sqlite"
)

// Backend names accepted in SUBSCRIBERS_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendInMem    = "in_mem"
)

// NewStorer creates a subscribers.Storer for the named backend.
func NewStorer(ctx context.Context, backend string, cfg config.SubscribersConfig) (subscribers.Storer, error) {
	switch backend {
	case BackendPostgres:
		if cfg.PGConnStr == "" {
			return nil, fmt.Errorf("postgres backend requires PG_CONNECTION_STRING")
		}

		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.PGConnStr})
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		storer, err := pg.NewStorer(pool)
		if err != nil {
			return nil, err
		}
		if err := storer.EnsureSchema(ctx); err != nil {
			storer.Close()
			return nil, err
		}
		return storer, nil

	case BackendSQLite:
		return sqlite.Open(cfg.SQLitePath)

	case BackendInMem:
		return in_mem.NewInMemStorer(), nil

	default:
		return nil, fmt.Errorf("unsupported subscribers backend: %s", backend)
	}
}

// NewService wires the configured primary store with its fallback. A postgres
// primary always gets a local SQLite fallback so signups survive a database
// outage. When postgres cannot even be reached at startup the fallback is
// promoted to primary.
func NewService(ctx context.Context, cfg config.SubscribersConfig) (*subscribers.Service, error) {
	if cfg.Backend != BackendPostgres {
		primary, err := NewStorer(ctx, cfg.Backend, cfg)
		if err != nil {
			return nil, err
		}
		return subscribers.NewService(primary, nil), nil
	}

	primary, perr := NewStorer(ctx, cfg.Backend, cfg)
	fallback, ferr := sqlite.Open(cfg.SQLitePath)

	switch {
	case perr != nil && ferr != nil:
		return nil, fmt.Errorf("subscriber stores unavailable: %w", perr)
	case perr != nil:
		slog.Warn("Postgres subscriber store unavailable, serving from SQLite only", "error", perr)
		return subscribers.NewService(fallback, nil), nil
	case ferr != nil:
		slog.Warn("SQLite fallback unavailable, postgres only", "error", ferr)
		return subscribers.NewService(primary, nil), nil
	default:
		return subscribers.NewService(primary, fallback), nil
	}
}
