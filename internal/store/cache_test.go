package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
)

// mapCache is an in-memory Cache for testing the decorator.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failing bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return nil, errors.New("cache unavailable")
	}
	raw, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return raw, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cache unavailable")
	}
	c.entries[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cache unavailable")
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// countingRepository wraps a repository and counts source reads.
type countingRepository struct {
	listing.Repository
	activeCalls int
}

func (r *countingRepository) ListActiveJobs(ctx context.Context) ([]*listing.Job, error) {
	r.activeCalls++
	return r.Repository.ListActiveJobs(ctx)
}

func seedRepository(t *testing.T) *listing.MemoryRepository {
	t.Helper()
	repo := listing.NewMemoryRepository()
	repo.PutJob(&listing.Job{ID: "j1", Title: "Backend Engineer", IsActive: true})
	repo.PutJob(&listing.Job{ID: "j2", Title: "Data Analyst", IsActive: true})
	return repo
}

func TestCachedRepository_HitAvoidsSourceRead(t *testing.T) {
	source := &countingRepository{Repository: seedRepository(t)}
	cache := newMapCache()
	cached := NewCachedRepository(source, cache, time.Minute, nil)

	first, err := cached.ListActiveJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, source.activeCalls)

	second, err := cached.ListActiveJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 1, source.activeCalls, "second read served from cache")
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestCachedRepository_WriteInvalidatesJobKeys(t *testing.T) {
	source := &countingRepository{Repository: seedRepository(t)}
	cache := newMapCache()
	cached := NewCachedRepository(source, cache, time.Minute, nil)

	_, err := cached.ListActiveJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, source.activeCalls)

	require.NoError(t, cached.IncrementAppliedCount(context.Background(), "j1"))

	jobs, err := cached.ListActiveJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.activeCalls, "invalidation forces a fresh read")

	var j1 *listing.Job
	for _, job := range jobs {
		if job.ID == "j1" {
			j1 = job
		}
	}
	require.NotNil(t, j1)
	assert.Equal(t, 1, j1.AppliedCount)
}

func TestCachedRepository_DeactivateInvalidates(t *testing.T) {
	source := &countingRepository{Repository: seedRepository(t)}
	cache := newMapCache()
	cached := NewCachedRepository(source, cache, time.Minute, nil)

	_, err := cached.ListActiveJobs(context.Background())
	require.NoError(t, err)

	require.NoError(t, cached.DeactivateJob(context.Background(), "j2"))

	jobs, err := cached.ListActiveJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].ID)
}

func TestCachedRepository_CacheFailureDegradesToSource(t *testing.T) {
	source := &countingRepository{Repository: seedRepository(t)}
	cache := newMapCache()
	cache.failing = true
	cached := NewCachedRepository(source, cache, time.Minute, nil)

	jobs, err := cached.ListActiveJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, 1, source.activeCalls)
}

func TestCachedRepository_UndecodableEntryDiscarded(t *testing.T) {
	source := &countingRepository{Repository: seedRepository(t)}
	cache := newMapCache()
	cache.entries[cacheKeyActiveJobs] = []byte("not json")
	cached := NewCachedRepository(source, cache, time.Minute, nil)

	jobs, err := cached.ListActiveJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, 1, source.activeCalls)
}

func TestCachedRepository_GetJobByIDBypassesCache(t *testing.T) {
	source := seedRepository(t)
	cached := NewCachedRepository(source, newMapCache(), time.Minute, nil)

	job, err := cached.GetJobByID(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)

	_, err = cached.GetJobByID(context.Background(), "missing")
	assert.ErrorIs(t, err, listing.ErrJobNotFound)
}

func TestCachedRepository_SourceErrorPropagates(t *testing.T) {
	cached := NewCachedRepository(failingRepository{}, newMapCache(), time.Minute, nil)

	_, err := cached.ListActiveJobs(context.Background())
	assert.Error(t, err)
}

type failingRepository struct{}

func (failingRepository) ListActiveJobs(context.Context) ([]*listing.Job, error) {
	return nil, errors.New("database down")
}

func (failingRepository) ListJobs(context.Context) ([]*listing.Job, error) {
	return nil, errors.New("database down")
}

func (failingRepository) GetJobByID(context.Context, string) (*listing.Job, error) {
	return nil, errors.New("database down")
}

func (failingRepository) ListCompanies(context.Context) ([]*listing.Company, error) {
	return nil, errors.New("database down")
}

func (failingRepository) ListCategories(context.Context) ([]*listing.Category, error) {
	return nil, errors.New("database down")
}

func (failingRepository) IncrementAppliedCount(context.Context, string) error {
	return errors.New("database down")
}

func (failingRepository) DeactivateJob(context.Context, string) error {
	return errors.New("database down")
}
