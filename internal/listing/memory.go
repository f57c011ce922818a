package listing

import (
	"context"
	"sort"
	"sync"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository.
// It uses maps with an RWMutex for thread-safe access.
// Suitable for development and testing; swap for the document store in
// production.
type MemoryRepository struct {
	mu         sync.RWMutex
	jobs       map[string]*Job
	companies  map[string]*Company
	categories map[string]*Category
}

// NewMemoryRepository creates a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		jobs:       make(map[string]*Job),
		companies:  make(map[string]*Company),
		categories: make(map[string]*Category),
	}
}

// PutJob stores a job, replacing any previous version.
// Creates a clone to avoid external mutations.
func (r *MemoryRepository) PutJob(job *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job.Clone()
}

// PutCompany stores a company record.
func (r *MemoryRepository) PutCompany(company *Company) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *company
	r.companies[c.ID] = &c
}

// PutCategory stores a category record.
func (r *MemoryRepository) PutCategory(category *Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *category
	r.categories[c.ID] = &c
}

// ListActiveJobs returns clones of all active jobs, posted date descending.
func (r *MemoryRepository) ListActiveJobs(_ context.Context) ([]*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if !job.IsActive {
			continue
		}
		result = append(result, job.Clone())
	}
	sortByPostedDesc(result)
	return result, nil
}

// ListJobs returns clones of all jobs, including inactive ones.
func (r *MemoryRepository) ListJobs(_ context.Context) ([]*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		result = append(result, job.Clone())
	}
	sortByPostedDesc(result)
	return result, nil
}

// GetJobByID retrieves a job by its ID.
// Returns a clone to prevent external mutations.
func (r *MemoryRepository) GetJobByID(_ context.Context, id string) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.Clone(), nil
}

// ListCompanies returns copies of all companies, sorted by name.
func (r *MemoryRepository) ListCompanies(_ context.Context) ([]*Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Company, 0, len(r.companies))
	for _, company := range r.companies {
		c := *company
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ListCategories returns copies of all categories, sorted by name.
func (r *MemoryRepository) ListCategories(_ context.Context) ([]*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Category, 0, len(r.categories))
	for _, category := range r.categories {
		c := *category
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// IncrementAppliedCount bumps the job's applied counter by one.
func (r *MemoryRepository) IncrementAppliedCount(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.AppliedCount++
	return nil
}

// DeactivateJob marks the job inactive.
func (r *MemoryRepository) DeactivateJob(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.IsActive = false
	return nil
}

// sortByPostedDesc orders jobs newest first, ties broken by ID so map
// iteration order never leaks into results.
func sortByPostedDesc(jobs []*Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].PostedDate.Equal(jobs[j].PostedDate) {
			return jobs[i].PostedDate.After(jobs[j].PostedDate)
		}
		return jobs[i].ID < jobs[j].ID
	})
}
