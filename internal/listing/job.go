// Package listing provides the job-listing domain: the Job record and its
// reference data (companies, categories), the filter/sort/paginate pipeline
// that turns a job collection plus the user's filter selections into the
// exact page of results to render, and the repository port to the backing
// document store.
package listing

import "time"

// Company is an employer reference record. It lives in its own collection
// and is also embedded in Job documents for display.
type Company struct {
	// ID is the unique identifier for this company.
	ID string
	// Name is the display name. Defaults to "Unknown Company" when the
	// source document carries none.
	Name string
	// LogoURL is an optional logo image URL.
	LogoURL string
	// Website is the company's public site.
	Website string
	// Email is a contact address.
	Email string
	// Phone is a contact number.
	Phone string
	// Location is the company's base location.
	Location string
	// Description is free-form text about the company.
	Description string
}

// Category is a job category reference record.
type Category struct {
	// ID is the unique identifier for this category.
	ID string
	// Name is the display name. Defaults to "General".
	Name string
	// Slug is an optional URL-friendly name.
	Slug string
	// Description is free-form text about the category.
	Description string
}

// Job represents a single listed position. Jobs are written by the external
// posting workflow; this service reads them, with two narrow exceptions: the
// applied counter and the expiry sweep.
type Job struct {
	// ID is the unique identifier for this job.
	ID string
	// Title is the display title. Never empty; defaults to "Untitled Job".
	Title string
	// Description is the long-form listing text.
	Description string
	// Requirements are the listed requirements, one entry per line of the
	// source document.
	Requirements []string
	// Responsibilities are the listed responsibilities.
	Responsibilities []string
	// Benefits are the listed benefits.
	Benefits []string
	// Skills are the listed skills.
	Skills []string
	// Location is the job's location, free-form (e.g. "Colombo").
	Location string
	// JobType is the free-form type string (e.g. "Full-time", "Remote").
	JobType string
	// EmploymentType is an optional secondary type (e.g. "Permanent").
	EmploymentType string
	// WorkMode is an optional mode string (e.g. "Hybrid").
	WorkMode string
	// SalaryText is the human-readable salary line (e.g. "Negotiable").
	SalaryText string
	// SalaryCurrency is the currency code for the numeric bounds.
	SalaryCurrency string
	// SalaryMin is the lower salary bound. Zero means not disclosed.
	SalaryMin int64
	// SalaryMax is the upper salary bound. Zero means not disclosed.
	SalaryMax int64
	// ApplyURL is the external apply destination: a web link, an email
	// address or mailto: link, or a WhatsApp deep link.
	ApplyURL string
	// IsActive marks the job as eligible for display. Inactive jobs never
	// appear in listings.
	IsActive bool
	// IsFeatured marks the job for priority placement ahead of
	// non-featured jobs regardless of recency.
	IsFeatured bool
	// AppliedCount is the number of apply actions recorded for this job.
	// Non-negative and non-decreasing.
	AppliedCount int
	// CategoryID references the category collection. May be empty.
	CategoryID string
	// CompanyID references the company collection. May be empty.
	CompanyID string
	// Company is the denormalized employer embed, when present.
	Company *Company
	// Category is the denormalized category embed, when present.
	Category *Category
	// PostedDate is when the job was published. Zero when the source
	// document carried no usable date; such jobs sort as oldest.
	PostedDate time.Time
	// Deadline is the application deadline. Zero means no deadline.
	Deadline time.Time
	// CreatedAt is when the document was created.
	CreatedAt time.Time
	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// CompanyName returns the embedded company name, or "" when the job has no
// company attached.
func (j *Job) CompanyName() string {
	if j.Company == nil {
		return ""
	}
	return j.Company.Name
}

// Expired reports whether the job's application deadline has passed.
// Jobs without a deadline never expire.
func (j *Job) Expired(now time.Time) bool {
	return !j.Deadline.IsZero() && j.Deadline.Before(now)
}

// Clone creates a deep copy of the job for safe reads.
func (j *Job) Clone() *Job {
	out := *j
	out.Requirements = append([]string(nil), j.Requirements...)
	out.Responsibilities = append([]string(nil), j.Responsibilities...)
	out.Benefits = append([]string(nil), j.Benefits...)
	out.Skills = append([]string(nil), j.Skills...)
	if j.Company != nil {
		company := *j.Company
		out.Company = &company
	}
	if j.Category != nil {
		category := *j.Category
		out.Category = &category
	}
	return &out
}
