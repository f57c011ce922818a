// Package server provides the HTTP server for the SeekJobs API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import (
	"time"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
	"github.com/seekjobslk/seekjobs-api/internal/session"
)

// CompanyResponse is the JSON shape of a company record.
type CompanyResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LogoURL     string `json:"logo_url,omitempty"`
	Website     string `json:"website,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse is the JSON shape of a category record.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// JobSummary is the card-level view of a job used in listings.
type JobSummary struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Company        *CompanyResponse  `json:"company,omitempty"`
	Category       *CategoryResponse `json:"category,omitempty"`
	JobType        string            `json:"job_type,omitempty"`
	Location       string            `json:"location,omitempty"`
	SalaryText     string            `json:"salary_text,omitempty"`
	SalaryCurrency string            `json:"salary_currency,omitempty"`
	SalaryMin      int64             `json:"salary_min,omitempty"`
	SalaryMax      int64             `json:"salary_max,omitempty"`
	IsFeatured     bool              `json:"is_featured"`
	AppliedCount   int               `json:"applied_count"`
	PostedDate     string            `json:"posted_date,omitempty"`
}

// JobDetail is the full view of a job used on the detail page.
type JobDetail struct {
	JobSummary
	Description      string   `json:"description,omitempty"`
	Requirements     []string `json:"requirements,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	EmploymentType   string   `json:"employment_type,omitempty"`
	WorkMode         string   `json:"work_mode,omitempty"`
	ApplyURL         string   `json:"apply_url,omitempty"`
	Deadline         string   `json:"deadline,omitempty"`
}

// FacetsResponse carries the selectable filter values.
type FacetsResponse struct {
	JobTypes  []string `json:"job_types"`
	Locations []string `json:"locations"`
}

// BrowseResponse is the response of GET /jobs.
type BrowseResponse struct {
	Jobs        []JobSummary   `json:"jobs"`
	TotalCount  int            `json:"total_count"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
	PageSize    int            `json:"page_size"`
	Facets      FacetsResponse `json:"facets"`
}

// JobListResponse is the response of the popular and related job endpoints.
type JobListResponse struct {
	Jobs []JobSummary `json:"jobs"`
}

// ApplyResponse is the response of POST /jobs/{id}/apply.
type ApplyResponse struct {
	Kind         string `json:"kind"`
	URL          string `json:"url"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AppliedCount int    `json:"applied_count"`
}

// VisitorResponse is the response of the visitor counter endpoints.
type VisitorResponse struct {
	Count int64 `json:"count"`
}

// ConsentRequest is the body of PUT /consent.
type ConsentRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted dismissed"`
}

// ConsentResponse is the response of the consent endpoints.
type ConsentResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}

func toCompanyResponse(c *listing.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		LogoURL:     c.LogoURL,
		Website:     c.Website,
		Location:    c.Location,
		Description: c.Description,
	}
}

func toCategoryResponse(c *listing.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func toJobSummary(j *listing.Job) JobSummary {
	return JobSummary{
		ID:             j.ID,
		Title:          j.Title,
		Company:        toCompanyResponse(j.Company),
		Category:       toCategoryResponse(j.Category),
		JobType:        j.JobType,
		Location:       j.Location,
		SalaryText:     j.SalaryText,
		SalaryCurrency: j.SalaryCurrency,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		IsFeatured:     j.IsFeatured,
		AppliedCount:   j.AppliedCount,
		PostedDate:     isoTime(j.PostedDate),
	}
}

func toJobSummaries(jobs []*listing.Job) []JobSummary {
	out := make([]JobSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobSummary(j))
	}
	return out
}

func toJobDetail(j *listing.Job) JobDetail {
	return JobDetail{
		JobSummary:       toJobSummary(j),
		Description:      j.Description,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
		Benefits:         j.Benefits,
		Skills:           j.Skills,
		EmploymentType:   j.EmploymentType,
		WorkMode:         j.WorkMode,
		ApplyURL:         j.ApplyURL,
		Deadline:         isoTime(j.Deadline),
	}
}

func toApplyResponse(t *listing.ApplyTarget) ApplyResponse {
	return ApplyResponse{
		Kind:         string(t.Kind),
		URL:          t.URL,
		Email:        t.Email,
		Phone:        t.Phone,
		AppliedCount: t.AppliedCount,
	}
}

func toConsentResponse(c session.Consent) ConsentResponse {
	return ConsentResponse{Status: string(c)}
}

// isoTime renders a timestamp as RFC3339, or "" for the zero time so the
// field is omitted from JSON.
func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
