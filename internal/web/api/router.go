// Package api exposes the analyzer, the catalogue and the generate-and-verify
// loop over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chandas-creator/chandas/internal/analysis"
	"github.com/chandas-creator/chandas/internal/catalogue"
	"github.com/chandas-creator/chandas/internal/verify"
	"github.com/chandas-creator/chandas/internal/web/auth"
	"github.com/chandas-creator/chandas/internal/web/middleware"
	"github.com/chandas-creator/chandas/internal/web/profiling"
	"github.com/chandas-creator/chandas/internal/web/ratelimit"
	"github.com/chandas-creator/chandas/internal/web/response"
)

// maxBodyBytes bounds request bodies. Verses are capped far below this.
const maxBodyBytes = 64 << 10

// Catalogue is the store behind the catalogue routes. *catalogue.Store
// satisfies it.
type Catalogue interface {
	Snapshot() *catalogue.Snapshot
	Reload(ctx context.Context) (*catalogue.Snapshot, error)
}

// Analyzer identifies the meter of a verse. *analysis.Service satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*analysis.Report, error)
}

// Verifier runs generate-and-verify. *verify.Verifier satisfies it.
type Verifier interface {
	Available() bool
	Run(ctx context.Context, req verify.Request) (*verify.Outcome, error)
}

// Options wires the router's collaborators. Verifier, Auth and
// GenerateLimiter may be nil.
type Options struct {
	Catalogue   Catalogue
	Analyzer    Analyzer
	Verifier    Verifier
	Auth        *auth.AuthService
	CORSOrigins []string
	Logger      *zap.Logger

	// Profiling mounts pprof under /debug/pprof behind Auth
	Profiling bool

	// GenerateLimiter throttles generate-and-verify per client IP, since
	// every call spends upstream model quota
	GenerateLimiter ratelimit.Limiter
}

// Handler serves the API routes
type Handler struct {
	catalogue Catalogue
	analyzer  Analyzer
	verifier  Verifier
	logger    *zap.Logger
}

// NewRouter builds the chi router with the global middleware stack
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		catalogue: opts.Catalogue,
		analyzer:  opts.Analyzer,
		verifier:  opts.Verifier,
		logger:    logger.Named("api"),
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger, "/health"),
		middleware.Recovery(logger),
		middleware.CORS(opts.CORSOrigins...),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.RenderNotFound(w, fmt.Sprintf("No route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.RenderError(w, http.StatusMethodNotAllowed, nil)
	})

	r.Get("/health", h.health)

	r.Route("/chandas", func(r chi.Router) {
		r.Get("/", h.listChandas)
		r.Post("/analyze", h.analyze)
		r.Get("/{name}", h.showChandas)
	})

	r.With(middleware.RateLimit(opts.GenerateLimiter, logger)).Post("/generate-and-verify", h.generateAndVerify)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(opts.Auth, logger))
		r.Post("/reload-db", h.reload)
		if opts.Profiling {
			profiling.RegisterRoutes(r, profiling.DefaultConfig())
		}
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	response.RenderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("request body must not exceed %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		default:
			return fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	return nil
}
