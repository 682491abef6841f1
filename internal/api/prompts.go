package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/sitegen/internal/llm"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/projects"
	"github.com/joestump/sitegen/internal/prompt"
)

type promptsAPIHandler struct {
	log *logger.Logger
}

func registerPromptRoutes(r chi.Router, log *logger.Logger) {
	h := &promptsAPIHandler{log: log}
	r.Post("/prompts/preview", h.Preview)
}

// Preview returns the prompt pair a create request would send, so a form can
// be checked without spending a provider call.
// POST /api/v1/prompts/preview
//
// @Summary      Preview a generation prompt
// @Tags         Prompts
// @Accept       json
// @Produce      json
// @Param        body  body      CreateProjectRequest  true  "Site description"
// @Success      200   {object}  PromptPreviewResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /prompts/preview [post]
func (h *promptsAPIHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	pv, err := projects.PreviewPrompt(projects.CreateInput{
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
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, PromptPreviewResponse{
		Persona:       string(pv.Persona),
		FontsURL:      pv.Persona.Fonts().StylesheetURL,
		Sections:      prompt.SectionList(pv.Sections),
		System:        pv.Composed.System,
		User:          pv.Composed.User,
		EstimatedSize: llm.EstimateUnits(pv.Composed.System) + llm.EstimateUnits(pv.Composed.User),
	})
}
