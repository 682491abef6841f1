// Package llm sends composed prompts to a hosted LLM provider and returns the
// raw completion text.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joestump/sitegen/internal/config"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/metrics"
	"github.com/joestump/sitegen/internal/prompt"
)

// Provider identifies an LLM backend.
type Provider string

const (
	// ProviderOpenRouter speaks the chat-completions envelope.
	ProviderOpenRouter Provider = "openrouter"
	// ProviderGemini speaks the generate-content envelope with model fallback.
	ProviderGemini Provider = "google_gemini"
)

// ParseProvider validates a provider name. An empty name is allowed and
// resolves to the dispatcher default.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "", ProviderOpenRouter, ProviderGemini:
		return p, nil
	case "gemini":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider %q: must be openrouter or google_gemini", s)
	}
}

// Image is an inline reference image.
type Image struct {
	Data     []byte
	MimeType string
}

// Completion is the raw text a provider returned and the model that produced it.
type Completion struct {
	Text  string
	Model string
}

// Dispatcher routes a composed prompt to one provider. It holds only
// immutable configuration and an HTTP client, so one instance can serve
// concurrent requests.
type Dispatcher struct {
	cfg    config.LLM
	log    *logger.Logger
	client *http.Client
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient replaces the default client. The client's Timeout is left
// as provided.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

func NewDispatcher(cfg config.LLM, log *logger.Logger, opts ...Option) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	d := &Dispatcher{
		cfg:    cfg,
		log:    log.With("component", "llm"),
		client: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefaultProvider returns the provider used when a request names none.
func (d *Dispatcher) DefaultProvider() Provider {
	if p, err := ParseProvider(d.cfg.DefaultProvider); err == nil && p != "" {
		return p
	}
	return ProviderOpenRouter
}

// Dispatch sends composed to provider and returns the raw completion.
// modelOverride replaces the configured model when non-empty. image is only
// sent to vision-capable models; other models get a textual note instead.
func (d *Dispatcher) Dispatch(ctx context.Context, composed prompt.Composed, provider Provider, image *Image, modelOverride string) (*Completion, error) {
	if provider == "" {
		provider = d.DefaultProvider()
	}
	if image != nil && (len(image.Data) == 0 || image.MimeType == "") {
		image = nil
	}

	start := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues(string(provider)).Observe(time.Since(start).Seconds())
	}()

	switch provider {
	case ProviderOpenRouter:
		return d.openRouter(ctx, composed, image, modelOverride)
	case ProviderGemini:
		return d.gemini(ctx, composed, image, modelOverride)
	default:
		return nil, &ConfigError{Provider: provider, Message: "unsupported provider"}
	}
}

// fitUserText applies the input budget for provider and records truncation.
func (d *Dispatcher) fitUserText(provider Provider, system, user string, ceiling int) string {
	out, cut := Truncate(system, user, ceiling)
	if cut {
		metrics.PromptTruncationsTotal.WithLabelValues(string(provider)).Inc()
		d.log.Warn("user prompt truncated to fit input budget",
			"provider", provider,
			"original_length", len(user),
			"truncated_length", len(out),
			"estimated_units", EstimateUnits(system)+EstimateUnits(user),
			"ceiling", ceiling,
		)
	} else if EstimateUnits(system)+EstimateUnits(user) > ceiling && ceiling > 0 {
		d.log.Warn("user prompt over input budget but too little room to truncate",
			"provider", provider,
			"estimated_units", EstimateUnits(system)+EstimateUnits(user),
			"ceiling", ceiling,
		)
	}
	return out
}
