package server

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
	// ApplyRateRPS is the sustained request rate allowed on the apply
	// endpoint.
	ApplyRateRPS float64
	// ApplyRateBurst is the burst size allowed on the apply endpoint.
	ApplyRateBurst int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		ApplyRateRPS:   5,
		ApplyRateBurst: 10,
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	applyLimiter := rate.NewLimiter(rate.Limit(cfg.ApplyRateRPS), cfg.ApplyRateBurst)
	rateLimited := RateLimitMiddleware(applyLimiter)

	// Register routes with method-based patterns (Go 1.22+)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /jobs", h.ListJobs)
	mux.HandleFunc("GET /jobs/popular", h.PopularJobs)
	mux.HandleFunc("GET /jobs/{id}", h.GetJob)
	mux.HandleFunc("GET /jobs/{id}/related", h.RelatedJobs)
	mux.Handle("POST /jobs/{id}/apply", rateLimited(http.HandlerFunc(h.ApplyJob)))
	mux.HandleFunc("GET /companies", h.ListCompanies)
	mux.HandleFunc("GET /categories", h.ListCategories)
	mux.HandleFunc("GET /visitors", h.GetVisitors)
	mux.HandleFunc("POST /visitors", h.RegisterVisitor)
	mux.HandleFunc("GET /consent", h.GetConsent)
	mux.HandleFunc("PUT /consent", h.PutConsent)

	// Apply middleware chain
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
