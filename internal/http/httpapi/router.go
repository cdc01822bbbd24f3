package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"mediagrab/internal/http/handlers"
	"mediagrab/internal/infra"
	"mediagrab/internal/middleware"
)

// NewRouter assembles the public HTTP surface.
func NewRouter(cfg *infra.Config, log infra.Logger, app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(log),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
	)

	r.Get("/", app.Root)
	r.Get("/v1/healthz", app.Health)
	r.Post("/analyze", app.Analyze)
	r.Post("/download", app.Download)

	return r
}
