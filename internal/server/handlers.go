package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/seekjobslk/seekjobs-api/internal/listing"
	"github.com/seekjobslk/seekjobs-api/internal/session"
)

// sessionCookieName carries the visitor's session token.
const sessionCookieName = "sj_session"

// sessionCookieMaxAge keeps the token across browser restarts for a year.
const sessionCookieMaxAge = int(365 * 24 * time.Hour / time.Second)

// Default limits for the aside endpoints.
const (
	defaultPopularLimit = 6
	defaultRelatedLimit = 3
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	listings  *listing.Service
	sessions  session.Store
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(listings *listing.Service, sessions session.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		listings:  listings,
		sessions:  sessions,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ListJobs handles GET /jobs requests: the filtered, sorted, paginated
// listing plus facet values.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	query, err := parseJobsQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_QUERY")
		return
	}
	if err := h.validator.Struct(query); err != nil {
		h.logger.Warn("jobs query validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	state := query.FilterState()
	result, err := h.listings.Browse(r.Context(), state, query.Page)
	if err != nil {
		h.logger.Error("failed to browse jobs",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list jobs", "JOB_LIST_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, BrowseResponse{
		Jobs:        toJobSummaries(result.Page.Items),
		TotalCount:  result.Page.TotalCount,
		TotalPages:  result.Page.TotalPages,
		CurrentPage: result.Page.CurrentPage,
		PageSize:    result.Page.PageSize,
		Facets: FacetsResponse{
			JobTypes:  result.Facets.JobTypes,
			Locations: result.Facets.Locations,
		},
	})
}

// GetJob handles GET /jobs/{id} requests.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job ID is required", "MISSING_JOB_ID")
		return
	}

	job, err := h.listings.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, listing.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get job", "JOB_FETCH_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, toJobDetail(job))
}

// RelatedJobs handles GET /jobs/{id}/related requests.
func (h *Handlers) RelatedJobs(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	limit, err := limitParam(r.URL.Query(), defaultRelatedLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_QUERY")
		return
	}

	jobs, err := h.listings.RelatedJobs(r.Context(), jobID, limit)
	if err != nil {
		if errors.Is(err, listing.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get related jobs",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get related jobs", "JOB_LIST_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, JobListResponse{Jobs: toJobSummaries(jobs)})
}

// PopularJobs handles GET /jobs/popular requests.
func (h *Handlers) PopularJobs(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r.URL.Query(), defaultPopularLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_QUERY")
		return
	}

	jobs, err := h.listings.PopularJobs(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to get popular jobs",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get popular jobs", "JOB_LIST_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, JobListResponse{Jobs: toJobSummaries(jobs)})
}

// ApplyJob handles POST /jobs/{id}/apply requests. The counter increment is
// asynchronous; the response carries the detected apply link and the
// reconciled count.
func (h *Handlers) ApplyJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job ID is required", "MISSING_JOB_ID")
		return
	}

	target, err := h.listings.Apply(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, listing.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
			return
		}
		h.logger.Error("failed to apply",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to apply", "APPLY_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, toApplyResponse(target))
}

// ListCompanies handles GET /companies requests.
func (h *Handlers) ListCompanies(w http.ResponseWriter, r *http.Request) {
	data, err := h.listings.HomeData(r.Context())
	if err != nil {
		h.logger.Error("failed to list companies",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list companies", "COMPANY_LIST_FAILED")
		return
	}

	companies := make([]CompanyResponse, 0, len(data.Companies))
	for _, c := range data.Companies {
		companies = append(companies, *toCompanyResponse(c))
	}
	writeJSON(w, http.StatusOK, companies)
}

// ListCategories handles GET /categories requests.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	data, err := h.listings.HomeData(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list categories", "CATEGORY_LIST_FAILED")
		return
	}

	categories := make([]CategoryResponse, 0, len(data.Categories))
	for _, c := range data.Categories {
		categories = append(categories, *toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetVisitors handles GET /visitors requests.
func (h *Handlers) GetVisitors(w http.ResponseWriter, r *http.Request) {
	count, err := h.sessions.VisitorCount(r.Context())
	if err != nil {
		h.logger.Error("failed to read visitor count",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read visitor count", "VISITOR_COUNT_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, VisitorResponse{Count: count})
}

// RegisterVisitor handles POST /visitors requests. Registration is
// idempotent per session cookie: repeat calls return the current total
// without counting the visitor again.
func (h *Handlers) RegisterVisitor(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(w, r)

	count, err := h.sessions.RegisterVisitor(r.Context(), token)
	if err != nil {
		h.logger.Error("failed to register visitor",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to register visitor", "VISITOR_REGISTER_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, VisitorResponse{Count: count})
}

// GetConsent handles GET /consent requests.
func (h *Handlers) GetConsent(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(w, r)

	consent, err := h.sessions.Consent(r.Context(), token)
	if err != nil {
		h.logger.Error("failed to read consent",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read consent", "CONSENT_READ_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, toConsentResponse(consent))
}

// PutConsent handles PUT /consent requests.
func (h *Handlers) PutConsent(w http.ResponseWriter, r *http.Request) {
	var req ConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	token := h.sessionToken(w, r)
	if err := h.sessions.SetConsent(r.Context(), token, session.Consent(req.Status)); err != nil {
		h.logger.Error("failed to store consent",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to store consent", "CONSENT_WRITE_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, ConsentResponse{Status: req.Status})
}

// sessionToken returns the caller's session token, minting one and setting
// the cookie when the request carries none.
func (h *Handlers) sessionToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
