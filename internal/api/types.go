package api

import (
	"time"

	"github.com/joestump/sitegen/internal/store"
)

// --- Project types ---

// CreateProjectRequest is the JSON body for POST /api/v1/projects. The same
// field names are accepted as multipart form fields, together with a
// reference_image file.
type CreateProjectRequest struct {
	Prompt         string   `json:"prompt,omitempty"`
	WebsiteName    string   `json:"website_name,omitempty"`
	Description    string   `json:"description,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	StyleTone      string   `json:"style_tone,omitempty"`
	IconLibrary    string   `json:"icon_library,omitempty"`
	PrimaryColor   string   `json:"primary_color,omitempty"`
	SecondaryColor string   `json:"secondary_color,omitempty"`
	AccentColor    string   `json:"accent_color,omitempty"`
	Sections       []string `json:"sections,omitempty"`
	Provider       string   `json:"ai_provider,omitempty"`
	Model          string   `json:"model,omitempty"`
}

// ImportProjectRequest is the request body for POST /api/v1/projects/import.
type ImportProjectRequest struct {
	WebsiteName string `json:"website_name,omitempty"`
	Description string `json:"description,omitempty"`
	IconLibrary string `json:"icon_library,omitempty"`
	HTML        string `json:"html_code,omitempty"`
	CSS         string `json:"css_code,omitempty"`
	JS          string `json:"js_code,omitempty"`
}

// UpdateCodeRequest is the request body for PUT /api/v1/projects/{id}/code.
// An omitted field leaves that file unchanged.
type UpdateCodeRequest struct {
	HTML *string `json:"html"`
	CSS  *string `json:"css"`
}

// ImproveRequest is the request body for POST /api/v1/projects/{id}/improve.
type ImproveRequest struct {
	Instruction string `json:"improve_prompt"`
	Provider    string `json:"ai_provider,omitempty"`
	Model       string `json:"model,omitempty"`
}

// ProjectResponse is the JSON representation of a single project.
type ProjectResponse struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Prompt     string    `json:"prompt"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Persona    string    `json:"persona"`
	Status     string    `json:"status"`
	PreviewURL string    `json:"preview_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FileResponse is one stored file of a project.
type FileResponse struct {
	Type      string    `json:"type"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectDetailResponse is a project with its stored documents.
type ProjectDetailResponse struct {
	ProjectResponse
	HTML  string         `json:"html"`
	CSS   string         `json:"css"`
	Files []FileResponse `json:"files"`
}

// ProjectListResponse is the paginated response for GET /api/v1/projects.
type ProjectListResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Total      int               `json:"total"`
	NextCursor *string           `json:"next_cursor"`
}

// --- Prompt types ---

// PromptPreviewResponse is the composed prompt pair for a form, without any
// provider call.
type PromptPreviewResponse struct {
	Persona       string   `json:"persona"`
	FontsURL      string   `json:"fonts_url"`
	Sections      []string `json:"sections"`
	System        string   `json:"system"`
	User          string   `json:"user"`
	EstimatedSize int      `json:"estimated_units"`
}

// --- Flash types ---

// FlashResponse carries the pending flash message, if any.
type FlashResponse struct {
	Flash *FlashMessage `json:"flash"`
}

type FlashMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func toProjectResponse(p *store.Project) ProjectResponse {
	return ProjectResponse{
		ID:         p.ID,
		Slug:       p.Slug,
		Prompt:     p.Prompt,
		Provider:   p.Provider,
		Model:      p.Model,
		Persona:    p.Persona,
		Status:     p.Status,
		PreviewURL: p.PreviewURL,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
