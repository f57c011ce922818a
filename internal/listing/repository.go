package listing

import (
	"context"
	"errors"
)

// ErrJobNotFound is returned when a job cannot be found by ID.
var ErrJobNotFound = errors.New("job not found")

// Repository defines the interface to the backing document store.
// It acts as a port in the hexagonal architecture pattern. Implementations
// return defensive copies; callers may hold and mutate results freely.
type Repository interface {
	// ListActiveJobs returns jobs eligible for display, ideally already in
	// posted-date descending order. The pipeline re-sorts regardless.
	ListActiveJobs(ctx context.Context) ([]*Job, error)

	// ListJobs returns every job, including inactive ones.
	ListJobs(ctx context.Context) ([]*Job, error)

	// GetJobByID retrieves a job by its unique identifier.
	// Returns ErrJobNotFound if the job does not exist.
	GetJobByID(ctx context.Context, id string) (*Job, error)

	// ListCompanies returns the company reference collection.
	ListCompanies(ctx context.Context) ([]*Company, error)

	// ListCategories returns the category reference collection.
	ListCategories(ctx context.Context) ([]*Category, error)

	// IncrementAppliedCount bumps the job's applied counter by one.
	// Best effort; the read path does not depend on it.
	IncrementAppliedCount(ctx context.Context, id string) error

	// DeactivateJob removes the job from all listings without deleting it.
	DeactivateJob(ctx context.Context, id string) error
}
