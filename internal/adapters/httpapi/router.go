package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logger"
)

// RouterOptions carries optional router wiring.
type RouterOptions struct {
	// AllowedOrigins enables CORS for browser forms hosted elsewhere. Empty disables CORS.
	AllowedOrigins []string

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	Log *logger.Logger
}

// NewRouter constructs the API HTTP router.
func NewRouter(api *Server, opts RouterOptions) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	// Infra checks.
	r.Get("/health", api.Health)
	r.Get("/readyz", api.Ready)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Get("/", api.Greet)
	r.Get("/hello/{name}", api.Greet)
	r.Post("/subscribe", api.Subscribe)
	return r
}
