package listing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, time.January, n, 0, 0, 0, 0, time.UTC)
}

func activeJob(id string, mutate func(*Job)) *Job {
	job := &Job{
		ID:       id,
		Title:    "Software Engineer " + id,
		IsActive: true,
		JobType:  "Full-time",
		Location: "Colombo",
	}
	if mutate != nil {
		mutate(job)
	}
	return job
}

func TestFilter_EmptyStateMatchesAllActive(t *testing.T) {
	jobs := []*Job{
		activeJob("a", nil),
		activeJob("b", func(j *Job) { j.IsActive = false }),
		activeJob("c", nil),
	}

	got := Filter(jobs, FilterState{})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestFilter_SearchIsTrimmedAndCaseInsensitive(t *testing.T) {
	jobs := []*Job{
		activeJob("title", func(j *Job) { j.Title = "Senior Accountant" }),
		activeJob("desc", func(j *Job) { j.Description = "accounting team lead" }),
		activeJob("company", func(j *Job) { j.Company = &Company{Name: "Account Labs"} }),
		activeJob("loc", func(j *Job) { j.Location = "Accountville" }),
		activeJob("miss", nil),
	}

	t.Run("matches title, description, company, and location", func(t *testing.T) {
		got := Filter(jobs, FilterState{Search: "ACCOUNT"})
		require.Len(t, got, 4)
		assert.Equal(t, "title", got[0].ID)
	})

	t.Run("empty search is a no-op", func(t *testing.T) {
		assert.Len(t, Filter(jobs, FilterState{Search: ""}), 5)
	})

	t.Run("whitespace-only search is a no-op", func(t *testing.T) {
		assert.Len(t, Filter(jobs, FilterState{Search: "   "}), 5)
	})
}

func TestFilter_MembershipSets(t *testing.T) {
	jobs := []*Job{
		activeJob("a", func(j *Job) { j.CategoryID = "it"; j.CompanyID = "acme" }),
		activeJob("b", func(j *Job) { j.CategoryID = "finance"; j.CompanyID = "acme" }),
		activeJob("c", func(j *Job) { j.CategoryID = "it"; j.CompanyID = "globex" }),
	}

	t.Run("single-value filter is a one-element set", func(t *testing.T) {
		got := Filter(jobs, FilterState{Categories: []string{"it"}})
		require.Len(t, got, 2)
	})

	t.Run("multi-value filter is set membership", func(t *testing.T) {
		got := Filter(jobs, FilterState{Categories: []string{"it", "finance"}})
		assert.Len(t, got, 3)
	})

	t.Run("criteria are ANDed across facets", func(t *testing.T) {
		got := Filter(jobs, FilterState{
			Categories: []string{"it"},
			Companies:  []string{"acme"},
		})
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})
}

func TestFilter_JobTypeRemoteMembership(t *testing.T) {
	jobs := []*Job{
		activeJob("remote", func(j *Job) { j.JobType = "Remote" }),
		activeJob("office", nil),
	}

	got := Filter(jobs, FilterState{JobTypes: []string{"Remote"}})
	require.Len(t, got, 1)
	assert.Equal(t, "remote", got[0].ID)
}

func TestFilter_LocationRules(t *testing.T) {
	jobs := []*Job{
		activeJob("colombo", nil),
		activeJob("kandy", func(j *Job) { j.Location = "Kandy" }),
		activeJob("remote", func(j *Job) { j.JobType = "Remote"; j.Location = "Galle" }),
	}

	t.Run("empty and all sentinels mean no constraint", func(t *testing.T) {
		assert.Len(t, Filter(jobs, FilterState{Location: ""}), 3)
		assert.Len(t, Filter(jobs, FilterState{Location: LocationAny}), 3)
	})

	t.Run("remote jobs only match the Remote location", func(t *testing.T) {
		got := Filter(jobs, FilterState{Location: "Galle"})
		assert.Empty(t, got, "a remote job must not match its employer location")

		got = Filter(jobs, FilterState{Location: "Remote"})
		require.Len(t, got, 1)
		assert.Equal(t, "remote", got[0].ID)
	})

	t.Run("on-site jobs match their location exactly", func(t *testing.T) {
		got := Filter(jobs, FilterState{Location: "Kandy"})
		require.Len(t, got, 1)
		assert.Equal(t, "kandy", got[0].ID)
	})
}

func TestFilter_SalaryOverlap(t *testing.T) {
	job := activeJob("paid", func(j *Job) {
		j.SalaryMin = 100000
		j.SalaryMax = 150000
	})
	undisclosed := activeJob("undisclosed", nil)
	jobs := []*Job{job, undisclosed}

	tests := []struct {
		name    string
		min     int64
		max     int64
		wantIDs []string
	}{
		{"overlapping upper bound includes", 0, 120000, []string{"paid", "undisclosed"}},
		{"requested min above job max excludes", 160000, 0, []string{"undisclosed"}},
		{"requested max below job min excludes", 0, 90000, []string{"undisclosed"}},
		{"range inside the job range includes", 110000, 140000, []string{"paid", "undisclosed"}},
		{"no bounds include everything", 0, 0, []string{"paid", "undisclosed"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(jobs, FilterState{SalaryMin: tc.min, SalaryMax: tc.max})
			ids := make([]string, 0, len(got))
			for _, j := range got {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestFilter_UndisclosedSalaryNeverExcluded(t *testing.T) {
	jobs := []*Job{activeJob("undisclosed", nil)}

	got := Filter(jobs, FilterState{SalaryMin: 1, SalaryMax: 1})
	assert.Len(t, got, 1, "absent job bounds are permissive: min 0, max unbounded")
}

func TestFilter_AddingConstraintNarrowsResult(t *testing.T) {
	jobs := make([]*Job, 0, 20)
	for i := 0; i < 20; i++ {
		i := i
		jobs = append(jobs, activeJob(fmt.Sprintf("j%02d", i), func(j *Job) {
			if i%2 == 0 {
				j.CategoryID = "it"
			}
			if i%3 == 0 {
				j.JobType = "Remote"
			}
		}))
	}

	base := FilterState{Categories: []string{"it"}}
	narrower := FilterState{Categories: []string{"it"}, JobTypes: []string{"Remote"}}

	baseIDs := map[string]bool{}
	for _, j := range Filter(jobs, base) {
		baseIDs[j.ID] = true
	}
	for _, j := range Filter(jobs, narrower) {
		assert.True(t, baseIDs[j.ID], "narrowed result must be a subset: %s", j.ID)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	jobs := []*Job{
		activeJob("a", func(j *Job) { j.CategoryID = "it" }),
		activeJob("b", nil),
	}
	state := FilterState{Categories: []string{"it"}}

	first := Filter(jobs, state)
	second := Filter(first, state)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i], second[i], "filtering an already-filtered set must be identity")
	}
}

func TestSort_FeaturedFirstThenMostRecent(t *testing.T) {
	t0, t1, t2 := day(1), day(2), day(3)
	jobs := []*Job{
		activeJob("plain", func(j *Job) { j.PostedDate = t1 }),
		activeJob("featured-old", func(j *Job) { j.IsFeatured = true; j.PostedDate = t0 }),
		activeJob("featured-new", func(j *Job) { j.IsFeatured = true; j.PostedDate = t2 }),
	}

	got := Sort(jobs)

	require.Len(t, got, 3)
	assert.Equal(t, "featured-new", got[0].ID)
	assert.Equal(t, "featured-old", got[1].ID)
	assert.Equal(t, "plain", got[2].ID)
}

func TestSort_StableAndMissingDateLast(t *testing.T) {
	jobs := []*Job{
		activeJob("first", func(j *Job) { j.PostedDate = day(5) }),
		activeJob("undated-a", nil),
		activeJob("undated-b", nil),
	}

	got := Sort(jobs)

	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "undated-a", got[1].ID, "equal keys keep input order")
	assert.Equal(t, "undated-b", got[2].ID)

	// Input order untouched
	assert.Equal(t, "first", jobs[0].ID)
}

func TestPaginate_Clamping(t *testing.T) {
	jobs := make([]*Job, 13)
	for i := range jobs {
		jobs[i] = activeJob(fmt.Sprintf("j%02d", i), nil)
	}

	t.Run("page zero clamps to one", func(t *testing.T) {
		page := Paginate(jobs, 0, 6)
		assert.Equal(t, 1, page.CurrentPage)
	})

	t.Run("huge page clamps to last", func(t *testing.T) {
		page := Paginate(jobs, 99999, 6)
		assert.Equal(t, 3, page.CurrentPage)
		assert.Len(t, page.Items, 1)
	})

	t.Run("total pages", func(t *testing.T) {
		page := Paginate(jobs, 1, 6)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 13, page.TotalCount)
	})
}

func TestPaginate_EmptyCollection(t *testing.T) {
	page := Paginate(nil, 1, 6)

	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 0, page.TotalCount)
}

func TestPaginate_PagesCoverWholeListExactlyOnce(t *testing.T) {
	jobs := make([]*Job, 17)
	for i := range jobs {
		jobs[i] = activeJob(fmt.Sprintf("j%02d", i), nil)
	}

	const pageSize = 5
	var seen []string
	first := Paginate(jobs, 1, pageSize)
	for p := 1; p <= first.TotalPages; p++ {
		page := Paginate(jobs, p, pageSize)
		for _, j := range page.Items {
			seen = append(seen, j.ID)
		}
	}

	require.Len(t, seen, len(jobs))
	for i, j := range jobs {
		assert.Equal(t, j.ID, seen[i])
	}
}

func TestPipeline_FeaturedScenario(t *testing.T) {
	// 8 jobs, 3 featured, page size 6: page 1 leads with the featured jobs
	// by recency, then the most recent non-featured; page 2 holds the rest.
	jobs := []*Job{
		activeJob("n1", func(j *Job) { j.PostedDate = day(1) }),
		activeJob("n2", func(j *Job) { j.PostedDate = day(2) }),
		activeJob("n3", func(j *Job) { j.PostedDate = day(3) }),
		activeJob("n4", func(j *Job) { j.PostedDate = day(4) }),
		activeJob("n5", func(j *Job) { j.PostedDate = day(5) }),
		activeJob("f1", func(j *Job) { j.IsFeatured = true; j.PostedDate = day(6) }),
		activeJob("f2", func(j *Job) { j.IsFeatured = true; j.PostedDate = day(7) }),
		activeJob("f3", func(j *Job) { j.IsFeatured = true; j.PostedDate = day(8) }),
	}

	sorted := Sort(Filter(jobs, FilterState{}))

	page1 := Paginate(sorted, 1, 6)
	require.Equal(t, 2, page1.TotalPages)
	require.Len(t, page1.Items, 6)
	gotIDs := []string{}
	for _, j := range page1.Items {
		gotIDs = append(gotIDs, j.ID)
	}
	assert.Equal(t, []string{"f3", "f2", "f1", "n5", "n4", "n3"}, gotIDs)

	page2 := Paginate(sorted, 2, 6)
	require.Len(t, page2.Items, 2)
	assert.Equal(t, "n2", page2.Items[0].ID)
	assert.Equal(t, "n1", page2.Items[1].ID)
}

func TestDeriveFacets_DistinctAndSorted(t *testing.T) {
	jobs := []*Job{
		activeJob("a", func(j *Job) { j.JobType = "Remote"; j.Location = "Colombo" }),
		activeJob("b", func(j *Job) { j.JobType = "Full-time"; j.Location = "" }),
		activeJob("c", func(j *Job) { j.JobType = "Remote"; j.Location = "Kandy" }),
		activeJob("d", func(j *Job) { j.JobType = ""; j.Location = "Colombo" }),
	}

	facets := DeriveFacets(jobs)

	assert.Equal(t, []string{"Full-time", "Remote"}, facets.JobTypes)
	assert.Equal(t, []string{"Colombo", "Kandy"}, facets.Locations)
}

func TestFilterState_Reset(t *testing.T) {
	state := FilterState{
		Search:     "engineer",
		Categories: []string{"it"},
		Location:   "Kandy",
		SalaryMin:  1000,
	}

	state.Reset()

	assert.Equal(t, FilterState{}, state)
}
