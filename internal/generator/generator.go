// Package generator runs the full pipeline: persona selection, prompt
// composition, provider dispatch and output sanitization.
package generator

import (
	"context"
	"errors"

	"github.com/joestump/sitegen/internal/llm"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/metrics"
	"github.com/joestump/sitegen/internal/persona"
	"github.com/joestump/sitegen/internal/prompt"
	"github.com/joestump/sitegen/internal/sanitize"
)

// Dispatcher sends a composed prompt to a provider. *llm.Dispatcher
// satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, composed prompt.Composed, provider llm.Provider, image *llm.Image, modelOverride string) (*llm.Completion, error)
	DefaultProvider() llm.Provider
}

// Request describes one site to generate.
type Request struct {
	prompt.Request
	Provider llm.Provider
	Model    string
}

// ImproveRequest describes one edit of an existing document.
type ImproveRequest struct {
	ExistingHTML string
	Instruction  string
	Provider     llm.Provider
	Model        string
}

// Result is a sanitized document ready to persist.
type Result struct {
	HTML      string
	StatusOK  bool
	Provider  llm.Provider
	ModelUsed string
	Persona   persona.Persona
}

type Generator struct {
	llm Dispatcher
	log *logger.Logger
}

func New(d Dispatcher, log *logger.Logger) *Generator {
	return &Generator{llm: d, log: log.With("component", "generator")}
}

// Generate builds a new site from req.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	p := persona.Select(req.RawPrompt, req.StyleHint)
	composed := prompt.ComposeGeneration(req.Request, p)

	var image *llm.Image
	if ref := req.ReferenceImage; ref != nil && len(ref.Data) > 0 {
		image = &llm.Image{Data: ref.Data, MimeType: ref.MimeType}
	}

	provider := g.provider(req.Provider)
	g.log.Info("generating site", "provider", provider, "persona", p, "sections", len(req.Sections), "has_image", image != nil)

	c, err := g.run(ctx, "generate", provider, composed, image, req.Model)
	if err != nil {
		return nil, err
	}
	return &Result{
		HTML:      sanitize.SanitizeWith(c.Text, sanitize.Options{FontStylesheetURL: p.Fonts().StylesheetURL}),
		StatusOK:  true,
		Provider:  provider,
		ModelUsed: c.Model,
		Persona:   p,
	}, nil
}

// Improve applies a natural-language edit to an existing document.
func (g *Generator) Improve(ctx context.Context, req ImproveRequest) (*Result, error) {
	composed := prompt.ComposeImprove(req.ExistingHTML, req.Instruction)
	provider := g.provider(req.Provider)
	g.log.Info("improving site", "provider", provider, "existing_length", len(req.ExistingHTML))

	c, err := g.run(ctx, "improve", provider, composed, nil, req.Model)
	if err != nil {
		return nil, err
	}
	return &Result{
		HTML:      sanitize.Sanitize(c.Text),
		StatusOK:  true,
		Provider:  provider,
		ModelUsed: c.Model,
	}, nil
}

func (g *Generator) run(ctx context.Context, kind string, provider llm.Provider, composed prompt.Composed, image *llm.Image, model string) (*llm.Completion, error) {
	c, err := g.llm.Dispatch(ctx, composed, provider, image, model)
	if err == nil {
		// A completion that arrives after cancellation is discarded unsanitized.
		err = ctx.Err()
	}
	metrics.GenerationsTotal.WithLabelValues(string(provider), kind, outcome(err)).Inc()
	if err != nil {
		g.log.Warn("generation failed", "kind", kind, "provider", provider, "outcome", outcome(err), "error", err)
		return nil, err
	}
	return c, nil
}

func (g *Generator) provider(p llm.Provider) llm.Provider {
	if p == "" {
		return g.llm.DefaultProvider()
	}
	return p
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return llm.Outcome(err)
	}
}
