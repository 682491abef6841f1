package projects

import (
	"github.com/joestump/sitegen/internal/generator"
	"github.com/joestump/sitegen/internal/persona"
	"github.com/joestump/sitegen/internal/prompt"
)

// PromptPreview is what Create would send to a provider for the same input.
type PromptPreview struct {
	Persona  persona.Persona
	Sections []prompt.Section
	Composed prompt.Composed
}

// PreviewPrompt validates in and composes its prompt pair without creating
// anything or calling a provider.
func PreviewPrompt(in CreateInput) (*PromptPreview, error) {
	v, err := in.validate()
	if err != nil {
		return nil, err
	}
	req := v.request(prompt.BuildDescription(v.form))
	p := persona.Select(req.RawPrompt, req.StyleHint)
	return &PromptPreview{
		Persona:  p,
		Sections: req.Sections,
		Composed: prompt.ComposeGeneration(req, p),
	}, nil
}

// BuildRequest validates in and turns it into a pipeline request, for callers
// that run the generator without storing a project.
func BuildRequest(in CreateInput) (generator.Request, error) {
	v, err := in.validate()
	if err != nil {
		return generator.Request{}, err
	}
	return generator.Request{
		Request:  v.request(prompt.BuildDescription(v.form)),
		Provider: v.provider,
		Model:    in.Model,
	}, nil
}
