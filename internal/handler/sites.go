package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/objectstore"
	"github.com/joestump/sitegen/internal/projects"
	"github.com/joestump/sitegen/internal/store"
)

// SitesHandler serves generated documents as pages: published sites under
// their slug and drafts in the editor preview frame.
type SitesHandler struct {
	projects *projects.Service
	log      *logger.Logger
}

// NewSitesHandler creates a new SitesHandler.
func NewSitesHandler(svc *projects.Service, log *logger.Logger) *SitesHandler {
	return &SitesHandler{projects: svc, log: log}
}

// Site serves one file of a published site.
// GET /sites/{slug}/*
func (h *SitesHandler) Site(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.projects.SiteFile(r.Context(), chi.URLParam(r, "slug"), chi.URLParam(r, "*"))
	if errors.Is(err, objectstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error("serve site file failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Write(data)
}

// Preview renders a project's stored document for the editor iframe.
// GET /preview/{id}
func (h *SitesHandler) Preview(w http.ResponseWriter, r *http.Request) {
	html, err := h.projects.Preview(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, projects.ErrNoDocument):
		http.Error(w, "File HTML belum tersedia.", http.StatusNotFound)
		return
	case err != nil:
		h.log.Error("render preview failed", "project_id", chi.URLParam(r, "id"), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Write([]byte(html))
}
