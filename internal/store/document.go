package store

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
)

// Document decoding is deliberately lenient. The posting tools wrote dates
// as {seconds,nanoseconds} objects, RFC3339 strings, or epoch numbers, and
// list fields as either arrays or newline-separated strings. Individual
// fields that fail to decode degrade to zero values; only a document that is
// not JSON at all is rejected.

// flexTime decodes the date encodings found in the documents. Anything
// unrecognized decodes to the zero time rather than failing the document.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if json.Unmarshal(trimmed, &s) != nil {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
	case '{':
		var pair struct {
			Seconds     *int64 `json:"seconds"`
			Nanoseconds int64  `json:"nanoseconds"`
		}
		if json.Unmarshal(trimmed, &pair) == nil && pair.Seconds != nil {
			t.Time = time.Unix(*pair.Seconds, pair.Nanoseconds)
		}
	default:
		var secs float64
		if json.Unmarshal(trimmed, &secs) == nil && secs > 0 {
			sec, frac := math.Modf(secs)
			t.Time = time.Unix(int64(sec), int64(frac*1e9))
		}
	}
	return nil
}

// flexStrings accepts a JSON array of strings or a single, possibly
// multiline, string. Blank lines are dropped either way.
type flexStrings []string

func (v *flexStrings) UnmarshalJSON(data []byte) error {
	*v = nil

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}

	if trimmed[0] == '[' {
		var items []string
		if json.Unmarshal(trimmed, &items) != nil {
			return nil
		}
		for _, item := range items {
			if s := strings.TrimSpace(item); s != "" {
				*v = append(*v, s)
			}
		}
		return nil
	}

	var s string
	if json.Unmarshal(trimmed, &s) != nil {
		return nil
	}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			*v = append(*v, line)
		}
	}
	return nil
}

// flexInt accepts a JSON number (including fractional) or null; anything
// else decodes to zero.
type flexInt int64

func (v *flexInt) UnmarshalJSON(data []byte) error {
	*v = 0
	var f float64
	if json.Unmarshal(bytes.TrimSpace(data), &f) == nil {
		*v = flexInt(f)
	}
	return nil
}

type companyDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type categoryDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type jobDoc struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Requirements     flexStrings  `json:"requirements"`
	Responsibilities flexStrings  `json:"responsibilities"`
	Benefits         flexStrings  `json:"benefits"`
	Skills           flexStrings  `json:"skills"`
	Location         string       `json:"location"`
	JobType          string       `json:"job_type"`
	EmploymentType   string       `json:"employment_type"`
	WorkMode         string       `json:"work_mode"`
	SalaryText       string       `json:"salary_text"`
	SalaryCurrency   string       `json:"salary_currency"`
	SalaryMin        flexInt      `json:"salary_min"`
	SalaryMax        flexInt      `json:"salary_max"`
	ApplyURL         string       `json:"apply_url"`
	IsActive         *bool        `json:"is_active"`
	IsFeatured       bool         `json:"is_featured"`
	AppliedCount     flexInt      `json:"applied_count"`
	CategoryID       string       `json:"category_id"`
	CompanyID        string       `json:"company_id"`
	Company          *companyDoc  `json:"company"`
	Category         *categoryDoc `json:"category"`
	PostedDate       flexTime     `json:"posted_date"`
	Deadline         flexTime     `json:"deadline"`
	CreatedAt        flexTime     `json:"created_at"`
	UpdatedAt        flexTime     `json:"updated_at"`
}

// decodeJob maps a raw job document onto the domain type, applying the
// display defaults the documents rely on. It errors only when the document
// is not valid JSON.
func decodeJob(id string, raw []byte) (*listing.Job, error) {
	var doc jobDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	job := &listing.Job{
		ID:               id,
		Title:            strings.TrimSpace(doc.Title),
		Description:      doc.Description,
		Requirements:     doc.Requirements,
		Responsibilities: doc.Responsibilities,
		Benefits:         doc.Benefits,
		Skills:           doc.Skills,
		Location:         doc.Location,
		JobType:          doc.JobType,
		EmploymentType:   doc.EmploymentType,
		WorkMode:         doc.WorkMode,
		SalaryText:       doc.SalaryText,
		SalaryCurrency:   doc.SalaryCurrency,
		SalaryMin:        int64(doc.SalaryMin),
		SalaryMax:        int64(doc.SalaryMax),
		ApplyURL:         doc.ApplyURL,
		IsActive:         doc.IsActive == nil || *doc.IsActive,
		IsFeatured:       doc.IsFeatured,
		AppliedCount:     int(doc.AppliedCount),
		CategoryID:       doc.CategoryID,
		CompanyID:        doc.CompanyID,
		PostedDate:       doc.PostedDate.Time,
		Deadline:         doc.Deadline.Time,
		CreatedAt:        doc.CreatedAt.Time,
		UpdatedAt:        doc.UpdatedAt.Time,
	}
	if job.Title == "" {
		job.Title = "Untitled Job"
	}
	if job.AppliedCount < 0 {
		job.AppliedCount = 0
	}
	if doc.Company != nil {
		job.Company = decodeCompanyDoc(doc.Company.ID, doc.Company)
	}
	if doc.Category != nil {
		job.Category = decodeCategoryDoc(doc.Category.ID, doc.Category)
	}
	return job, nil
}

func decodeCompany(id string, raw []byte) (*listing.Company, error) {
	var doc companyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return decodeCompanyDoc(id, &doc), nil
}

func decodeCategory(id string, raw []byte) (*listing.Category, error) {
	var doc categoryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return decodeCategoryDoc(id, &doc), nil
}

func decodeCompanyDoc(id string, doc *companyDoc) *listing.Company {
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		name = "Unknown Company"
	}
	return &listing.Company{
		ID:          id,
		Name:        name,
		LogoURL:     doc.LogoURL,
		Website:     doc.Website,
		Email:       doc.Email,
		Phone:       doc.Phone,
		Location:    doc.Location,
		Description: doc.Description,
	}
}

func decodeCategoryDoc(id string, doc *categoryDoc) *listing.Category {
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		name = "General"
	}
	return &listing.Category{
		ID:          id,
		Name:        name,
		Slug:        doc.Slug,
		Description: doc.Description,
	}
}
