package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the small key-value surface the decorator needs. Backed by Redis
// in production, by a map in tests.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Cache keys for the listing collections.
const (
	cacheKeyActiveJobs = "cache:jobs:active"
	cacheKeyAllJobs    = "cache:jobs:all"
	cacheKeyCompanies  = "cache:companies"
	cacheKeyCategories = "cache:categories"
)

// Compile-time check that CachedRepository implements listing.Repository.
var _ listing.Repository = (*CachedRepository)(nil)

// CachedRepository is a read-through cache decorator for a
// listing.Repository. Collection reads are served from the cache when
// possible; the two writes invalidate the job keys. Cache failures degrade
// to the underlying repository, never to an error.
type CachedRepository struct {
	inner  listing.Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps repo with a read-through cache.
func NewCachedRepository(repo listing.Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRepository{inner: repo, cache: cache, ttl: ttl, logger: logger}
}

// ListActiveJobs serves the active collection through the cache.
func (c *CachedRepository) ListActiveJobs(ctx context.Context) ([]*listing.Job, error) {
	return cachedList(ctx, c, cacheKeyActiveJobs, c.inner.ListActiveJobs)
}

// ListJobs serves the full collection through the cache.
func (c *CachedRepository) ListJobs(ctx context.Context) ([]*listing.Job, error) {
	return cachedList(ctx, c, cacheKeyAllJobs, c.inner.ListJobs)
}

// GetJobByID always reads through to the source so the detail view shows
// fresh applied counts.
func (c *CachedRepository) GetJobByID(ctx context.Context, id string) (*listing.Job, error) {
	return c.inner.GetJobByID(ctx, id)
}

// ListCompanies serves the company collection through the cache.
func (c *CachedRepository) ListCompanies(ctx context.Context) ([]*listing.Company, error) {
	return cachedList(ctx, c, cacheKeyCompanies, c.inner.ListCompanies)
}

// ListCategories serves the category collection through the cache.
func (c *CachedRepository) ListCategories(ctx context.Context) ([]*listing.Category, error) {
	return cachedList(ctx, c, cacheKeyCategories, c.inner.ListCategories)
}

// IncrementAppliedCount writes through and invalidates the job keys.
func (c *CachedRepository) IncrementAppliedCount(ctx context.Context, id string) error {
	if err := c.inner.IncrementAppliedCount(ctx, id); err != nil {
		return err
	}
	c.invalidateJobs(ctx)
	return nil
}

// DeactivateJob writes through and invalidates the job keys.
func (c *CachedRepository) DeactivateJob(ctx context.Context, id string) error {
	if err := c.inner.DeactivateJob(ctx, id); err != nil {
		return err
	}
	c.invalidateJobs(ctx)
	return nil
}

func (c *CachedRepository) invalidateJobs(ctx context.Context) {
	if err := c.cache.Delete(ctx, cacheKeyActiveJobs, cacheKeyAllJobs); err != nil {
		c.logger.Warn("cache invalidation failed", slog.String("error", err.Error()))
	}
}

// cachedList is the shared read-through path: cache hit -> decode, cache
// miss or any cache error -> source fetch, then best-effort store.
func cachedList[T any](ctx context.Context, c *CachedRepository, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if raw, err := c.cache.Get(ctx, key); err == nil {
		var cached []T
		if json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
		c.logger.Warn("discarding undecodable cache entry", slog.String("key", key))
	} else if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	result, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return result, nil
}
