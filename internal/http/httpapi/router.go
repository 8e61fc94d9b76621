package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"adstudio/internal/http/handlers"
	"adstudio/internal/middleware"
)

// Options carries the router's cross-cutting wiring.
type Options struct {
	Verifier        middleware.TokenVerifier
	AllowedOrigins  []string
	RateLimitPerMin int
	Country         middleware.CountryLookup
	// StaticDir, when non-empty, is served under /static/ for persisted media.
	StaticDir string
}

// NewRouter builds the public HTTP surface.
func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger, opts.Country))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.RateLimitPerMin > 0 {
				r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			}
			r.Post("/register", app.Register)
			r.Post("/login", app.Login)
			r.Post("/auth/google", app.GoogleAuth)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(opts.Verifier))
			r.Get("/videos", app.ListVideos)
			r.Post("/edit-image", app.EditImage)
			r.Post("/generate-video", app.GenerateVideo)
		})
	})

	if opts.StaticDir != "" {
		fs := stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
