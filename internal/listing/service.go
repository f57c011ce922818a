package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// incrementTimeout bounds the fire-and-forget applied-counter write.
const incrementTimeout = 5 * time.Second

// Service implements the listing use cases over a Repository and the
// filter pipeline. All reads return snapshots the caller may keep; apply
// actions never mutate previously returned jobs.
type Service struct {
	repo               Repository
	logger             *slog.Logger
	pageSize           int
	facetsFromFiltered bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPageSize sets the page size used by Browse. Values < 1 keep the
// default.
func WithPageSize(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithFacetsFromFiltered derives facets from the filtered result set
// instead of the full active collection, shrinking the dropdown options as
// filters narrow. One listing screen variant shipped this behavior; it is
// kept behind a flag and off by default.
func WithFacetsFromFiltered(enabled bool) ServiceOption {
	return func(s *Service) {
		s.facetsFromFiltered = enabled
	}
}

// NewService creates a listing Service.
func NewService(repo Repository, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:     repo,
		logger:   logger,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BrowseResult is one page of filtered jobs plus the facet values for the
// filter controls.
type BrowseResult struct {
	Page   Page
	Facets Facets
}

// Browse runs the filter -> sort -> paginate pipeline over the active job
// collection and attaches facets.
func (s *Service) Browse(ctx context.Context, state FilterState, page int) (*BrowseResult, error) {
	jobs, err := s.repo.ListActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}

	filtered := Filter(jobs, state)
	sorted := Sort(filtered)

	result := &BrowseResult{Page: Paginate(sorted, page, s.pageSize)}
	if s.facetsFromFiltered {
		result.Facets = DeriveFacets(filtered)
	} else {
		result.Facets = DeriveFacets(jobs)
	}
	return result, nil
}

// HomeData bundles everything the landing screen needs in one round trip.
type HomeData struct {
	Jobs       []*Job
	Companies  []*Company
	Categories []*Category
}

// HomeData fetches the active jobs and both reference collections
// concurrently.
func (s *Service) HomeData(ctx context.Context) (*HomeData, error) {
	var data HomeData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		jobs, err := s.repo.ListActiveJobs(gctx)
		if err != nil {
			return fmt.Errorf("list active jobs: %w", err)
		}
		data.Jobs = jobs
		return nil
	})
	g.Go(func() error {
		companies, err := s.repo.ListCompanies(gctx)
		if err != nil {
			return fmt.Errorf("list companies: %w", err)
		}
		data.Companies = companies
		return nil
	})
	g.Go(func() error {
		categories, err := s.repo.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		data.Categories = categories
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetJob retrieves a single job by ID.
func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.GetJobByID(ctx, id)
}

// RelatedJobs returns up to limit active jobs in the same category as the
// given job, excluding the job itself, in display order. A job without a
// category has no related jobs.
func (s *Service) RelatedJobs(ctx context.Context, id string, limit int) ([]*Job, error) {
	job, err := s.repo.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.CategoryID == "" {
		return nil, nil
	}

	jobs, err := s.repo.ListActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}

	sameCategory := Filter(jobs, FilterState{Categories: []string{job.CategoryID}})
	related := make([]*Job, 0, limit)
	for _, candidate := range Sort(sameCategory) {
		if candidate.ID == id {
			continue
		}
		related = append(related, candidate)
		if limit > 0 && len(related) == limit {
			break
		}
	}
	return related, nil
}

// PopularJobs returns up to limit active jobs with the highest applied
// counts, ties broken by posted date descending.
func (s *Service) PopularJobs(ctx context.Context, limit int) ([]*Job, error) {
	jobs, err := s.repo.ListActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].AppliedCount != jobs[j].AppliedCount {
			return jobs[i].AppliedCount > jobs[j].AppliedCount
		}
		return jobs[i].PostedDate.After(jobs[j].PostedDate)
	})

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// Apply resolves the job's apply link and records the apply action.
// The counter write is fire-and-forget: it runs on a detached context and a
// failure is logged, never surfaced. The returned target carries the
// locally reconciled count so the next render shows the action without a
// fresh repository read.
func (s *Service) Apply(ctx context.Context, id string) (*ApplyTarget, error) {
	job, err := s.repo.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := ClassifyApplyLink(job.ApplyURL)
	target.AppliedCount = job.AppliedCount + 1

	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, incrementTimeout)
		defer cancel()
		if err := s.repo.IncrementAppliedCount(ctx, id); err != nil {
			s.logger.Error("failed to increment applied count",
				slog.String("job_id", id),
				slog.String("error", err.Error()),
			)
		}
	}(context.WithoutCancel(ctx))

	s.logger.Info("apply action recorded",
		slog.String("job_id", id),
		slog.String("kind", string(target.Kind)),
	)
	return &target, nil
}
