package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/joestump/sitegen/internal/metrics"
	"github.com/joestump/sitegen/internal/prompt"
)

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

const geminiContentPath = "candidates.0.content.parts.0.text"

// fallbackState tracks the Gemini candidate loop.
type fallbackState int

const (
	stateTrying fallbackState = iota
	stateSucceeded
	stateExhausted
)

// candidateModels puts requested first, followed by the fallback list with
// duplicates removed.
func candidateModels(requested string, fallbacks []string) []string {
	seen := make(map[string]bool, len(fallbacks)+1)
	out := make([]string, 0, len(fallbacks)+1)
	for _, m := range append([]string{requested}, fallbacks...) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func (d *Dispatcher) gemini(ctx context.Context, composed prompt.Composed, image *Image, modelOverride string) (*Completion, error) {
	cfg := d.cfg.Gemini
	if cfg.APIKey == "" {
		return nil, &ConfigError{
			Provider: ProviderGemini,
			Message:  "API key is not configured; set SITEGEN_LLM_GEMINI_API_KEY with a key from https://aistudio.google.com/app/apikey",
		}
	}

	requested := cfg.Model
	if modelOverride != "" {
		requested = modelOverride
	}
	candidates := candidateModels(requested, cfg.FallbackModels)
	if len(candidates) == 0 {
		return nil, &ConfigError{Provider: ProviderGemini, Message: "no model configured"}
	}

	user := composed.User
	if image != nil {
		// Every Gemini candidate accepts inline images, so the vision
		// decision is made once against the requested model.
		if SupportsVision(ProviderGemini, requested) {
			user += imageAnalysisNote
		} else {
			user += referenceImageNote
			image = nil
		}
	}
	user = d.fitUserText(ProviderGemini, composed.System, user, cfg.MaxInputUnits)

	parts := []geminiPart{{Text: composed.System + "\n\n" + user}}
	if image != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: image.MimeType,
			Data:     base64.StdEncoding.EncodeToString(image.Data),
		}})
	}
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.85,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: MaxOutputTokens(ProviderGemini, requested),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var (
		state   = stateTrying
		result  *Completion
		lastErr *ModelUnavailableError
		next    int
	)
	for state == stateTrying {
		if next >= len(candidates) {
			state = stateExhausted
			break
		}
		model := candidates[next]
		next++
		if next > 1 {
			metrics.ModelFallbacksTotal.WithLabelValues(string(ProviderGemini)).Inc()
			d.log.Warn("gemini model unavailable, trying next candidate",
				"previous", lastErr.Model, "next", model, "error", lastErr.Message)
		}

		c, err := d.geminiCall(ctx, cfg.BaseURL, cfg.APIKey, model, payload)
		var unavailable *ModelUnavailableError
		switch {
		case err == nil:
			result = c
			state = stateSucceeded
		case errors.As(err, &unavailable):
			lastErr = unavailable
		default:
			return nil, err
		}
	}

	if state == stateExhausted {
		return nil, &ProviderError{
			Provider: ProviderGemini,
			Kind:     KindMalformedRequest,
			Status:   lastErr.Status,
			Model:    lastErr.Model,
			Message: fmt.Sprintf("all candidate models failed; last error: %s. Models tried: %s. Set SITEGEN_LLM_GEMINI_MODEL to an available model",
				lastErr.Message, strings.Join(candidates, ", ")),
			Err: lastErr,
		}
	}

	d.log.Info("gemini completion received", "model", result.Model, "requested_model", requested, "length", len(result.Text))
	return result, nil
}

// geminiCall performs one generate-content request against model.
func (d *Dispatcher) geminiCall(ctx context.Context, baseURL, apiKey, model string, payload []byte) (*Completion, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(model), url.QueryEscape(apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	d.log.Debug("gemini request", "model", model)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Provider: ProviderGemini, Timeout: isTimeout(err), Err: redactKey(err, apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: ProviderGemini, Timeout: isTimeout(err), Err: fmt.Errorf("read response: %w", redactKey(err, apiKey))}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := classifyGemini(resp.StatusCode, body, model)
		var pErr *ProviderError
		if errors.As(err, &pErr) {
			d.log.Error("gemini request failed", "status", resp.StatusCode, "kind", pErr.Kind, "model", model)
		}
		return nil, err
	}

	text := gjson.GetBytes(body, geminiContentPath).String()
	if strings.TrimSpace(text) == "" {
		msg := "provider returned an empty response; try again in a few moments"
		if apiMsg := errorMessage(body); apiMsg != "" {
			msg = "provider returned an empty response: " + apiMsg
		} else if reason := gjson.GetBytes(body, "candidates.0.finishReason").String(); reason != "" {
			msg = "provider returned an empty response (finish reason " + reason + ")"
		}
		return nil, &ProviderError{
			Provider: ProviderGemini,
			Kind:     KindEmptyResponse,
			Status:   resp.StatusCode,
			Model:    model,
			Message:  msg,
		}
	}
	return &Completion{Text: text, Model: model}, nil
}

// classifyGemini maps a non-2xx response onto either a ModelUnavailableError,
// which lets the caller try the next candidate, or a ProviderError.
func classifyGemini(status int, body []byte, model string) error {
	apiMsg := errorMessage(body)
	lower := strings.ToLower(apiMsg)

	if (status == http.StatusBadRequest || status == http.StatusNotFound) &&
		(strings.Contains(lower, "not found") || strings.Contains(lower, "not supported")) {
		return &ModelUnavailableError{Model: model, Status: status, Message: apiMsg}
	}

	e := &ProviderError{Provider: ProviderGemini, Status: status, Model: model}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindInvalidCredentials
		e.Message = "API key is invalid or lacks access; check SITEGEN_LLM_GEMINI_API_KEY"
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.Message = "rate limit reached; try again in a few seconds"
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		switch {
		case strings.Contains(lower, "token") && strings.Contains(lower, "exceed"):
			e.Kind = KindPromptTooLong
			e.Message = "prompt exceeds the model input limit; use a shorter prompt"
		case apiMsg == "":
			e.Kind = KindMalformedRequest
			e.Message = "invalid request; check the request format and that model " + model + " is available"
		default:
			e.Kind = KindMalformedRequest
			e.Message = "invalid request: " + apiMsg
		}
	case status >= 500:
		e.Kind = KindServerError
		e.Message = "generation failed: " + orBody(apiMsg, body) + " (provider server error, try again later)"
	default:
		e.Kind = KindUnknown
		e.Message = "generation failed: " + orBody(apiMsg, body)
	}
	return e
}

// redactKey strips the API key from errors that embed the request URL. A
// *url.Error keeps its cause with the URL redacted. Other errors carrying the
// key are flattened to their redacted message.
func redactKey(err error, key string) error {
	if err == nil || key == "" {
		return err
	}
	if uerr, ok := err.(*url.Error); ok {
		return &url.Error{Op: uerr.Op, URL: redactString(uerr.URL, key), Err: redactKey(uerr.Err, key)}
	}
	msg := redactString(err.Error(), key)
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}

func redactString(s, key string) string {
	s = strings.ReplaceAll(s, url.QueryEscape(key), "***")
	return strings.ReplaceAll(s, key, "***")
}
