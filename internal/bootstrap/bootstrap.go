// Package bootstrap provides dependency initialization for the SeekJobs API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seekjobslk/seekjobs-api/internal/config"
	"github.com/seekjobslk/seekjobs-api/internal/listing"
	"github.com/seekjobslk/seekjobs-api/internal/scheduler"
	"github.com/seekjobslk/seekjobs-api/internal/session"
	"github.com/seekjobslk/seekjobs-api/internal/store"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	// Listings is the listing service behind the job endpoints.
	Listings *listing.Service
	// Sessions backs the visitor counter and consent endpoints.
	Sessions session.Store
	// Sweeper is the expiry scheduler, nil when disabled.
	Sweeper *scheduler.Sweeper

	closers []func()
}

// Close releases every connection the dependencies hold.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// NewDependencies creates and initializes all dependencies for the
// application. Missing DATABASE_URL or REDIS_URL degrade to the in-memory
// implementations so the service still comes up in development.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	repo, err := initRepository(ctx, cfg, logger, deps)
	if err != nil {
		return nil, err
	}

	deps.Sessions = session.NewMemory()
	if cfg.RedisURL != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("create redis client: %w", err)
		}
		deps.closers = append(deps.closers, func() { _ = rdb.Close() })

		deps.Sessions = session.NewRedis(rdb, cfg.SessionTTL)
		repo = store.NewCachedRepository(repo, store.NewRedisCache(rdb), cfg.CacheTTL, logger)
		logger.Info("redis configured",
			slog.Duration("cache_ttl", cfg.CacheTTL),
			slog.Duration("session_ttl", cfg.SessionTTL),
		)
	}

	deps.Listings = listing.NewService(repo, logger,
		listing.WithPageSize(cfg.PageSize),
		listing.WithFacetsFromFiltered(cfg.FacetsFromFiltered),
	)

	if cfg.SweepInterval > 0 {
		deps.Sweeper = scheduler.NewSweeper(repo, logger, cfg.SweepInterval)
	}

	return deps, nil
}

// initRepository selects the document store or the in-memory fallback.
func initRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger, deps *Dependencies) (listing.Repository, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory repository")
		return listing.NewMemoryRepository(), nil
	}

	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("create postgres store: %w", err)
	}
	deps.closers = append(deps.closers, pg.Close)
	logger.Info("postgres document store configured")
	return pg, nil
}
