// Package scheduler wires up the cron job that periodically deactivates
// listings whose application deadline has passed.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
)

// Sweeper wraps robfig/cron and manages the expiry sweep loop.
type Sweeper struct {
	cron   *cron.Cron
	repo   listing.Repository
	logger *slog.Logger
	spec   string
	now    func() time.Time
}

// NewSweeper creates a Sweeper that fires every interval.
func NewSweeper(repo listing.Repository, logger *slog.Logger, interval time.Duration) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		cron:   cron.New(),
		repo:   repo,
		logger: logger,
		spec:   fmt.Sprintf("@every %s", interval),
		now:    time.Now,
	}
}

// Start registers the sweep and starts the scheduler. Also runs one sweep
// immediately so expired jobs disappear without waiting for the first tick.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("expiry sweeper started", slog.String("spec", s.spec))

	go s.Sweep(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	s.logger.Info("expiry sweeper stopped")
}

// Sweep deactivates every active job whose deadline has passed. Individual
// failures are logged and skipped so one bad document cannot stall the rest.
func (s *Sweeper) Sweep(ctx context.Context) {
	jobs, err := s.repo.ListJobs(ctx)
	if err != nil {
		s.logger.Error("expiry sweep: list jobs failed", slog.String("error", err.Error()))
		return
	}

	now := s.now()
	swept := 0
	for _, job := range jobs {
		if !job.IsActive || !job.Expired(now) {
			continue
		}
		if err := s.repo.DeactivateJob(ctx, job.ID); err != nil {
			s.logger.Error("expiry sweep: deactivate failed",
				slog.String("job_id", job.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		swept++
	}

	if swept > 0 {
		s.logger.Info("expired jobs deactivated", slog.Int("count", swept))
	}
}
