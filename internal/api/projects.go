package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/projects"
	"github.com/joestump/sitegen/internal/session"
)

// multipartOverhead leaves room for form fields next to the largest image.
const multipartOverhead = 1 << 20

// projectsAPIHandler provides REST handlers for projects.
type projectsAPIHandler struct {
	svc   *projects.Service
	flash *session.Flasher
	log   *logger.Logger
}

// registerProjectRoutes registers project routes on r.
func registerProjectRoutes(r chi.Router, svc *projects.Service, flash *session.Flasher, log *logger.Logger) {
	h := &projectsAPIHandler{svc: svc, flash: flash, log: log}
	r.Get("/projects", h.List)
	r.Post("/projects", h.Create)
	r.Post("/projects/import", h.Import)
	r.Get("/projects/{id}", h.Get)
	r.Delete("/projects/{id}", h.Delete)
	r.Put("/projects/{id}/code", h.UpdateCode)
	r.Post("/projects/{id}/improve", h.Improve)
	r.Post("/projects/{id}/publish", h.Publish)
}

// List returns a page of projects, newest first.
// GET /api/v1/projects
//
// @Summary      List projects
// @Tags         Projects
// @Produce      json
// @Param        cursor  query     string  false  "Pagination cursor"
// @Param        limit   query     int     false  "Page size (max 200)"
// @Success      200     {object}  ProjectListResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /projects [get]
func (h *projectsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	items, total, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	resp := ProjectListResponse{
		Projects:   make([]ProjectResponse, 0, len(items)),
		Total:      total,
		NextCursor: nextCursor(offset, len(items), total),
	}
	for _, p := range items {
		resp.Projects = append(resp.Projects, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create generates a new site from a form. Accepts JSON, urlencoded or
// multipart bodies; only multipart can carry a reference image.
// POST /api/v1/projects
//
// @Summary      Generate a site
// @Description  Creates a project and generates its site with the selected AI provider.
// @Tags         Projects
// @Accept       json,mpfd
// @Produce      json
// @Param        body  body      CreateProjectRequest  true  "Site description"
// @Success      201   {object}  ProjectResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Failure      504   {object}  ErrorResponse
// @Router       /projects [post]
func (h *projectsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCreateInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		status, message, _ := errorStatus(err)
		if status != http.StatusBadRequest {
			h.flash.Put(r.Context(), session.FlashError, "Gagal generate website: "+message)
		}
		writeServiceError(w, h.log, err)
		return
	}

	h.flash.Put(r.Context(), session.FlashSuccess, "Website berhasil digenerate")
	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

// Import creates a project from hand-written HTML, CSS and JS.
// POST /api/v1/projects/import
func (h *projectsAPIHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	p, err := h.svc.Import(r.Context(), projects.ImportInput{
		WebsiteName: req.WebsiteName,
		Description: req.Description,
		IconLibrary: req.IconLibrary,
		HTML:        req.HTML,
		CSS:         req.CSS,
		JS:          req.JS,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	h.flash.Put(r.Context(), session.FlashSuccess, "Website dari kode berhasil disimpan.")
	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

// Get returns a project with its stored documents.
// GET /api/v1/projects/{id}
//
// @Summary      Get a project
// @Tags         Projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  ProjectDetailResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id} [get]
func (h *projectsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	resp := ProjectDetailResponse{
		ProjectResponse: toProjectResponse(d.Project),
		HTML:            d.HTML,
		CSS:             d.CSS,
		Files:           make([]FileResponse, 0, len(d.Files)),
	}
	for _, f := range d.Files {
		resp.Files = append(resp.Files, FileResponse{Type: f.Type, Path: f.Path, CreatedAt: f.CreatedAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete removes a project, its files and its published site.
// DELETE /api/v1/projects/{id}
func (h *projectsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.flash.Put(r.Context(), session.FlashSuccess, "Project dihapus.")
	w.WriteHeader(http.StatusNoContent)
}

// UpdateCode overwrites the stored HTML and/or CSS.
// PUT /api/v1/projects/{id}/code
func (h *projectsAPIHandler) UpdateCode(w http.ResponseWriter, r *http.Request) {
	var req UpdateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.HTML == nil && req.CSS == nil {
		writeError(w, http.StatusBadRequest, "html or css is required", "BAD_REQUEST")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.UpdateCode(r.Context(), id, req.HTML, req.CSS); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.flash.Put(r.Context(), session.FlashSuccess, "Kode berhasil disimpan.")

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(d.Project))
}

// Improve applies a natural-language edit to the stored site.
// POST /api/v1/projects/{id}/improve
//
// @Summary      Improve a site
// @Description  Rewrites only the parts of the stored document the instruction names.
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Project ID"
// @Param        body  body      ImproveRequest  true  "Instruction"
// @Success      200   {object}  ProjectResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /projects/{id}/improve [post]
func (h *projectsAPIHandler) Improve(w http.ResponseWriter, r *http.Request) {
	var req ImproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	p, err := h.svc.Improve(r.Context(), chi.URLParam(r, "id"), projects.ImproveInput{
		Instruction: req.Instruction,
		Provider:    req.Provider,
		Model:       req.Model,
	})
	if err != nil {
		if status, message, _ := errorStatus(err); status != http.StatusBadRequest && status != http.StatusNotFound {
			h.flash.Put(r.Context(), session.FlashError, message)
		}
		writeServiceError(w, h.log, err)
		return
	}

	h.flash.Put(r.Context(), session.FlashSuccess, "Website berhasil diperbaiki sesuai permintaan.")
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// Publish copies the site to its public address.
// POST /api/v1/projects/{id}/publish
func (h *projectsAPIHandler) Publish(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Publish(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, projects.ErrNoDocument) {
		h.flash.Put(r.Context(), session.FlashError, "File index.html belum tersedia. Pastikan project sudah di-generate dengan benar.")
	}
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	h.flash.Put(r.Context(), session.FlashSuccess, "Project berhasil dipublish.")
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// decodeCreateInput reads a create form from JSON, urlencoded or multipart.
func decodeCreateInput(r *http.Request) (projects.CreateInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(projects.MaxImageBytes + multipartOverhead); err != nil {
			return projects.CreateInput{}, errors.New("invalid multipart body")
		}
		in := formInput(r)
		image, err := formImage(r)
		if err != nil {
			return projects.CreateInput{}, err
		}
		in.Image = image
		return in, nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return projects.CreateInput{}, errors.New("invalid form body")
		}
		return formInput(r), nil
	default:
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return projects.CreateInput{}, errors.New("invalid request body")
		}
		return projects.CreateInput{
			Prompt:         req.Prompt,
			WebsiteName:    req.WebsiteName,
			Description:    req.Description,
			TargetAudience: req.TargetAudience,
			StyleTone:      req.StyleTone,
			IconLibrary:    req.IconLibrary,
			PrimaryColor:   req.PrimaryColor,
			SecondaryColor: req.SecondaryColor,
			AccentColor:    req.AccentColor,
			Sections:       req.Sections,
			Provider:       req.Provider,
			Model:          req.Model,
		}, nil
	}
}

func formInput(r *http.Request) projects.CreateInput {
	return projects.CreateInput{
		Prompt:         r.FormValue("prompt"),
		WebsiteName:    r.FormValue("website_name"),
		Description:    r.FormValue("description"),
		TargetAudience: r.FormValue("target_audience"),
		StyleTone:      r.FormValue("style_tone"),
		IconLibrary:    r.FormValue("icon_library"),
		PrimaryColor:   r.FormValue("primary_color"),
		SecondaryColor: r.FormValue("secondary_color"),
		AccentColor:    r.FormValue("accent_color"),
		Sections:       formSections(r),
		Provider:       r.FormValue("ai_provider"),
		Model:          r.FormValue("model"),
	}
}

// formSections accepts repeated sections or sections[] fields, each of which
// may itself be a comma separated list.
func formSections(r *http.Request) []string {
	var out []string
	for _, key := range []string{"sections", "sections[]"} {
		for _, v := range r.Form[key] {
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func formImage(r *http.Request) (*projects.Upload, error) {
	file, header, err := r.FormFile("reference_image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("invalid reference_image upload")
	}
	defer file.Close()

	// One byte past the limit is enough for validation to reject it.
	data, err := io.ReadAll(io.LimitReader(file, projects.MaxImageBytes+1))
	if err != nil {
		return nil, errors.New("failed to read reference_image")
	}
	return &projects.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
