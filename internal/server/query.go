package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
)

// JobsQuery captures the listing filter controls as query parameters.
// The multi-select parameters (category, company, type) accept both repeated
// parameters and comma-separated values.
type JobsQuery struct {
	Search     string   `validate:"max=200"`
	Categories []string `validate:"max=20"`
	Companies  []string `validate:"max=20"`
	JobTypes   []string `validate:"max=20"`
	Location   string   `validate:"max=100"`
	SalaryMin  int64    `validate:"min=0"`
	SalaryMax  int64    `validate:"min=0"`
	Page       int      `validate:"min=0"`
	PageSize   int      `validate:"min=0,max=50"`
}

// FilterState converts the query into the pipeline's filter representation.
func (q JobsQuery) FilterState() listing.FilterState {
	return listing.FilterState{
		Search:     q.Search,
		Categories: q.Categories,
		Companies:  q.Companies,
		JobTypes:   q.JobTypes,
		Location:   q.Location,
		SalaryMin:  q.SalaryMin,
		SalaryMax:  q.SalaryMax,
	}
}

// parseJobsQuery decodes the raw query values. Malformed numbers are
// errors; out-of-range page numbers are not, since the pipeline clamps them.
func parseJobsQuery(values url.Values) (JobsQuery, error) {
	query := JobsQuery{
		Search:     values.Get("search"),
		Categories: splitMulti(values["category"]),
		Companies:  splitMulti(values["company"]),
		JobTypes:   splitMulti(values["type"]),
		Location:   values.Get("location"),
	}

	var err error
	if query.SalaryMin, err = int64Param(values, "salary_min"); err != nil {
		return query, err
	}
	if query.SalaryMax, err = int64Param(values, "salary_max"); err != nil {
		return query, err
	}

	page, err := int64Param(values, "page")
	if err != nil {
		return query, err
	}
	pageSize, err := int64Param(values, "page_size")
	if err != nil {
		return query, err
	}
	query.Page = int(page)
	query.PageSize = int(pageSize)

	return query, nil
}

// limitParam reads an optional positive limit, falling back to def.
func limitParam(values url.Values, def int) (int, error) {
	v, err := int64Param(values, "limit")
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return def, nil
	}
	if v > 50 {
		return 0, fmt.Errorf("limit must be at most 50")
	}
	return int(v), nil
}

func int64Param(values url.Values, name string) (int64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// splitMulti flattens repeated and comma-separated parameter values into one
// trimmed, non-empty list.
func splitMulti(raw []string) []string {
	var out []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
