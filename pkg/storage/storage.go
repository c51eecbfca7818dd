// Package storage selects and opens the record store backend.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cvfolio/cvfolio/pkg/config"
	"github.com/cvfolio/cvfolio/pkg/health"
	"github.com/cvfolio/cvfolio/pkg/health/checkers"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/storage/postgres"
	"github.com/cvfolio/cvfolio/pkg/storage/sqlite"
)

const (
	BackendJSON     = "json"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Handle bundles an opened backend with its readiness checks.
type Handle struct {
	Backend  recordstore.Backend
	Checkers []health.Checker
	close    func()
}

// Close releases connections held by the backend.
func (h *Handle) Close() {
	if h.close != nil {
		h.close()
	}
}

// Open builds the backend named by cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Config) (*Handle, error) {
	switch cfg.StoreBackend {
	case "", BackendJSON:
		b, err := recordstore.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return &Handle{Backend: b, Checkers: []health.Checker{checkers.NewStoreChecker(b)}}, nil
	case BackendMemory:
		b := recordstore.NewMemoryBackend()
		return &Handle{Backend: b, Checkers: []health.Checker{checkers.NewStoreChecker(b)}}, nil
	case BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.DataDir, "cvfolio.db")
		}
		b, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return &Handle{
			Backend:  b,
			Checkers: []health.Checker{checkers.NewPingChecker("sqlite", b)},
			close:    func() { _ = b.Close() },
		}, nil
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b, err := postgres.NewBackend(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Handle{
			Backend:  b,
			Checkers: []health.Checker{checkers.NewPostgresChecker(pool)},
			close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
