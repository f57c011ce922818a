package listing

import (
	"math"
	"sort"
	"strings"
)

// DefaultPageSize matches the six-card grid of the listing screen.
const DefaultPageSize = 6

// LocationAny is the sentinel the location selector sends when no location
// is chosen. The empty string means the same thing.
const LocationAny = "all"

// jobTypeRemote gets special location handling: a remote job matches the
// "Remote" location choice and no other.
const jobTypeRemote = "Remote"

// FilterState holds the user's current selection criteria. Each list field
// is a set of accepted values: an empty set means no constraint, and a
// single-select control is just a one-element set. The zero value matches
// every active job.
type FilterState struct {
	// Search is free text, matched case-insensitively against title,
	// description, company name, and location. Whitespace-only is a no-op.
	Search string
	// Categories is the set of accepted category IDs.
	Categories []string
	// Companies is the set of accepted company IDs.
	Companies []string
	// JobTypes is the set of accepted job type strings.
	JobTypes []string
	// Location is the chosen location, or ""/LocationAny for no constraint.
	Location string
	// SalaryMin is the lower requested salary bound; <= 0 means no bound.
	SalaryMin int64
	// SalaryMax is the upper requested salary bound; <= 0 means no bound.
	SalaryMax int64
}

// Reset restores the default, unconstrained state.
func (s *FilterState) Reset() {
	*s = FilterState{}
}

// Page is one page of pipeline output.
type Page struct {
	// Items is the ordered slice of jobs for the requested page.
	Items []*Job
	// TotalCount is the size of the whole filtered set.
	TotalCount int
	// TotalPages is max(1, ceil(TotalCount/PageSize)).
	TotalPages int
	// CurrentPage is the served page number, clamped into [1, TotalPages].
	CurrentPage int
	// PageSize is the page size used.
	PageSize int
}

// Facets are the distinct selectable values present in a job collection,
// used to populate the type and location filter controls.
type Facets struct {
	JobTypes  []string
	Locations []string
}

// Filter returns the subsequence of jobs that passes every constraint in
// state. Constraints are ANDed, relative order is preserved, and the input
// is never mutated. Missing job fields degrade permissively: an undisclosed
// salary is never grounds for exclusion.
func Filter(jobs []*Job, state FilterState) []*Job {
	search := strings.ToLower(strings.TrimSpace(state.Search))

	out := make([]*Job, 0, len(jobs))
	for _, job := range jobs {
		if job == nil || !job.IsActive {
			continue
		}
		if !matchesSearch(job, search) {
			continue
		}
		if !memberOf(state.Categories, job.CategoryID) {
			continue
		}
		if !memberOf(state.Companies, job.CompanyID) {
			continue
		}
		if !memberOf(state.JobTypes, job.JobType) {
			continue
		}
		if !matchesLocation(job, state.Location) {
			continue
		}
		if !matchesSalary(job, state.SalaryMin, state.SalaryMax) {
			continue
		}
		out = append(out, job)
	}
	return out
}

// Sort returns a copy of jobs ordered for display: featured first, then
// most recently posted. The sort is stable so jobs with equal keys keep
// their repository order and pagination stays deterministic across renders.
// A zero PostedDate sorts as oldest.
func Sort(jobs []*Job) []*Job {
	out := make([]*Job, len(jobs))
	copy(out, jobs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		return a.PostedDate.After(b.PostedDate)
	})
	return out
}

// Paginate slices jobs into the requested page. The page number is clamped
// into [1, TotalPages]: an out-of-range request yields the nearest valid
// page, never an error. An empty collection yields one empty page.
func Paginate(jobs []*Job, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (len(jobs) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(jobs) {
		start = len(jobs)
	}
	if end > len(jobs) {
		end = len(jobs)
	}

	items := make([]*Job, end-start)
	copy(items, jobs[start:end])

	return Page{
		Items:       items,
		TotalCount:  len(jobs),
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}

// DeriveFacets collects the distinct non-empty job types and locations in
// jobs, sorted lexicographically. Call it with the full active collection so
// the dropdowns do not shrink as the user narrows filters.
func DeriveFacets(jobs []*Job) Facets {
	return Facets{
		JobTypes:  distinct(jobs, func(j *Job) string { return j.JobType }),
		Locations: distinct(jobs, func(j *Job) string { return j.Location }),
	}
}

func matchesSearch(job *Job, search string) bool {
	if search == "" {
		return true
	}
	for _, field := range []string{job.Title, job.Description, job.CompanyName(), job.Location} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// memberOf treats an empty accepted set as "any value".
func memberOf(accepted []string, value string) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, v := range accepted {
		if v == value {
			return true
		}
	}
	return false
}

func matchesLocation(job *Job, location string) bool {
	if location == "" || location == LocationAny {
		return true
	}
	if job.JobType == jobTypeRemote {
		return location == jobTypeRemote
	}
	return job.Location == location
}

// matchesSalary passes when the job's advertised range overlaps the
// requested one. A requested bound <= 0 is unconstrained; an undisclosed job
// minimum counts as 0 and an undisclosed maximum as unbounded.
func matchesSalary(job *Job, reqMin, reqMax int64) bool {
	jobMin := job.SalaryMin
	jobMax := job.SalaryMax
	if jobMax <= 0 {
		jobMax = math.MaxInt64
	}
	if reqMin > 0 && jobMax < reqMin {
		return false
	}
	if reqMax > 0 && jobMin > reqMax {
		return false
	}
	return true
}

func distinct(jobs []*Job, key func(*Job) string) []string {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if job == nil {
			continue
		}
		v := key(job)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
