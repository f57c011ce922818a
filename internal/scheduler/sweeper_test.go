package scheduler

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
)

func TestSweepDeactivatesExpiredJobs(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	repo := listing.NewMemoryRepository()
	repo.PutJob(&listing.Job{ID: "expired", IsActive: true, Deadline: now.Add(-time.Hour)})
	repo.PutJob(&listing.Job{ID: "open", IsActive: true, Deadline: now.Add(time.Hour)})
	repo.PutJob(&listing.Job{ID: "no-deadline", IsActive: true})
	repo.PutJob(&listing.Job{ID: "already-inactive", IsActive: false, Deadline: now.Add(-time.Hour)})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sweeper := NewSweeper(repo, logger, time.Hour)
	sweeper.now = func() time.Time { return now }

	sweeper.Sweep(context.Background())

	expired, err := repo.GetJobByID(context.Background(), "expired")
	require.NoError(t, err)
	assert.False(t, expired.IsActive)

	open, err := repo.GetJobByID(context.Background(), "open")
	require.NoError(t, err)
	assert.True(t, open.IsActive)

	noDeadline, err := repo.GetJobByID(context.Background(), "no-deadline")
	require.NoError(t, err)
	assert.True(t, noDeadline.IsActive, "jobs without a deadline never expire")
}

func TestSweepIsIdempotent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	repo := listing.NewMemoryRepository()
	repo.PutJob(&listing.Job{ID: "expired", IsActive: true, Deadline: now.Add(-time.Hour)})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sweeper := NewSweeper(repo, logger, time.Hour)
	sweeper.now = func() time.Time { return now }

	sweeper.Sweep(context.Background())
	sweeper.Sweep(context.Background())

	jobs, err := repo.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].IsActive)
}

func TestStartAndStop(t *testing.T) {
	repo := listing.NewMemoryRepository()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	sweeper := NewSweeper(repo, logger, time.Hour)

	require.NoError(t, sweeper.Start(context.Background()))
	sweeper.Stop()
}
