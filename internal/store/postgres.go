// Package store persists the listing collections as JSONB documents in
// Postgres, mirroring the document-database layout the posting tools write,
// and provides an optional Redis read-through cache in front of any
// listing.Repository.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
)

// Compile-time check that Postgres implements listing.Repository.
var _ listing.Repository = (*Postgres)(nil)

// schema creates the three document collections. Each row is one document;
// all structure lives in the JSONB payload.
const schema = `
CREATE TABLE IF NOT EXISTS jobs       (id text PRIMARY KEY, doc jsonb NOT NULL);
CREATE TABLE IF NOT EXISTS companies  (id text PRIMARY KEY, doc jsonb NOT NULL);
CREATE TABLE IF NOT EXISTS categories (id text PRIMARY KEY, doc jsonb NOT NULL);
`

// Postgres is the document-store implementation of listing.Repository.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres creates a Postgres repository, verifying the connection and
// ensuring the collections exist.
func NewPostgres(ctx context.Context, databaseURL string, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Postgres{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// ListActiveJobs returns all jobs not explicitly marked inactive. Ordering
// is by ID for determinism; the pipeline re-sorts for display.
func (p *Postgres) ListActiveJobs(ctx context.Context) ([]*listing.Job, error) {
	const q = `SELECT id, doc FROM jobs WHERE (doc->>'is_active') IS DISTINCT FROM 'false' ORDER BY id`
	return p.queryJobs(ctx, q)
}

// ListJobs returns every job, including inactive ones.
func (p *Postgres) ListJobs(ctx context.Context) ([]*listing.Job, error) {
	const q = `SELECT id, doc FROM jobs ORDER BY id`
	return p.queryJobs(ctx, q)
}

// GetJobByID retrieves a single job document.
func (p *Postgres) GetJobByID(ctx context.Context, id string) (*listing.Job, error) {
	const q = `SELECT doc FROM jobs WHERE id = $1`

	var raw []byte
	if err := p.pool.QueryRow(ctx, q, id).Scan(&raw); err != nil {
		if isNoRows(err) {
			return nil, listing.ErrJobNotFound
		}
		return nil, fmt.Errorf("query job %s: %w", id, err)
	}

	job, err := decodeJob(id, raw)
	if err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return job, nil
}

// ListCompanies returns the company reference collection.
func (p *Postgres) ListCompanies(ctx context.Context) ([]*listing.Company, error) {
	const q = `SELECT id, doc FROM companies ORDER BY doc->>'name'`

	rows, err := p.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var result []*listing.Company
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		company, err := decodeCompany(id, raw)
		if err != nil {
			p.logger.Warn("skipping malformed company document",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		result = append(result, company)
	}
	return result, rows.Err()
}

// ListCategories returns the category reference collection.
func (p *Postgres) ListCategories(ctx context.Context) ([]*listing.Category, error) {
	const q = `SELECT id, doc FROM categories ORDER BY doc->>'name'`

	rows, err := p.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var result []*listing.Category
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		category, err := decodeCategory(id, raw)
		if err != nil {
			p.logger.Warn("skipping malformed category document",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IncrementAppliedCount bumps the applied counter inside the document.
func (p *Postgres) IncrementAppliedCount(ctx context.Context, id string) error {
	const q = `
UPDATE jobs
SET doc = jsonb_set(doc, '{applied_count}',
	to_jsonb(COALESCE((doc->>'applied_count')::bigint, 0) + 1), true)
WHERE id = $1`

	tag, err := p.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("increment applied count for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return listing.ErrJobNotFound
	}
	return nil
}

// DeactivateJob flips is_active off inside the document.
func (p *Postgres) DeactivateJob(ctx context.Context, id string) error {
	const q = `UPDATE jobs SET doc = jsonb_set(doc, '{is_active}', 'false'::jsonb, true) WHERE id = $1`

	tag, err := p.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("deactivate job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return listing.ErrJobNotFound
	}
	return nil
}

func (p *Postgres) queryJobs(ctx context.Context, q string) ([]*listing.Job, error) {
	rows, err := p.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var result []*listing.Job
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		job, err := decodeJob(id, raw)
		if err != nil {
			p.logger.Warn("skipping malformed job document",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		result = append(result, job)
	}
	return result, rows.Err()
}
