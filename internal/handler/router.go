package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joestump/sitegen/internal/api"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/projects"
	"github.com/joestump/sitegen/internal/session"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	Projects       *projects.Service
	Log            *logger.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(deps.SessionManager.LoadAndSave)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	sites := NewSitesHandler(deps.Projects, log.With("component", "sites"))
	r.Get("/preview/{id}", sites.Preview)
	r.Get("/sites/{slug}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
	})
	r.Get("/sites/{slug}/*", sites.Site)

	// API sub-router at /api/v1.
	apiRouter := api.NewAPIRouter(api.Deps{
		Projects: deps.Projects,
		Flash:    session.NewFlasher(deps.SessionManager),
		Log:      log,
	})
	r.Mount("/api/v1", apiRouter)

	return r
}
