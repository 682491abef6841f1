package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/projects"
	"github.com/joestump/sitegen/internal/session"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Projects *projects.Service
	Flash    *session.Flasher
	Log      *logger.Logger
}

// NewAPIRouter creates a chi sub-router for /api/v1.
// All routes return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "api")

	r := chi.NewRouter()

	// All API responses are JSON.
	r.Use(jsonContentType)

	registerProjectRoutes(r, deps.Projects, deps.Flash, log)
	registerPromptRoutes(r, log)
	r.Get("/flash", flashHandler(deps.Flash))

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
