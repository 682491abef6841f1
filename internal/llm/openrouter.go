package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/joestump/sitegen/internal/prompt"
)

const openRouterTemperature = 0.85

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatMessage content is either a plain string or a list of chatParts.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

// openRouterContentPaths are tried in order until one yields non-empty text.
var openRouterContentPaths = []string{
	"choices.0.message.content",
	"choices.0.text",
	"data.0.text",
	"content",
}

func (d *Dispatcher) openRouter(ctx context.Context, composed prompt.Composed, image *Image, modelOverride string) (*Completion, error) {
	cfg := d.cfg.OpenRouter
	if cfg.APIKey == "" {
		return nil, &ConfigError{
			Provider: ProviderOpenRouter,
			Message:  "API key is not configured; set SITEGEN_LLM_OPENROUTER_API_KEY with a key from https://openrouter.ai/keys",
		}
	}
	if !strings.HasPrefix(cfg.APIKey, "sk-") {
		d.log.Warn("openrouter API key format looks unusual", "key_prefix", keyPrefix(cfg.APIKey))
	}

	model := cfg.Model
	if modelOverride != "" {
		model = modelOverride
	}

	user := composed.User
	vision := image != nil && SupportsVision(ProviderOpenRouter, model)
	switch {
	case vision:
		user += imageAnalysisNote
	case image != nil:
		user += referenceImageNote
	}
	user = d.fitUserText(ProviderOpenRouter, composed.System, user, cfg.MaxInputUnits)

	var userContent any = user
	if vision {
		userContent = []chatPart{
			{Type: "text", Text: user},
			{Type: "image_url", ImageURL: &chatImageURL{URL: dataURI(image)}},
		}
		d.log.Info("openrouter request includes reference image", "model", model, "mime_type", image.MimeType)
	}

	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: composed.System},
			{Role: "user", Content: userContent},
		},
		Temperature: openRouterTemperature,
		MaxTokens:   MaxOutputTokens(ProviderOpenRouter, model),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	if cfg.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", cfg.Referer)
	}
	if cfg.Title != "" {
		httpReq.Header.Set("X-Title", cfg.Title)
	}

	d.log.Debug("openrouter request", "model", model, "max_tokens", MaxOutputTokens(ProviderOpenRouter, model))

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Provider: ProviderOpenRouter, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: ProviderOpenRouter, Timeout: isTimeout(err), Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		pErr := classifyOpenRouter(resp.StatusCode, body)
		pErr.Model = model
		d.log.Error("openrouter request failed", "status", resp.StatusCode, "kind", pErr.Kind, "model", model)
		return nil, pErr
	}

	text := firstString(body, openRouterContentPaths...)
	if strings.TrimSpace(text) == "" {
		msg := "provider returned an empty response; try again in a few moments"
		if apiMsg := errorMessage(body); apiMsg != "" {
			msg = "provider returned an empty response: " + apiMsg
		}
		return nil, &ProviderError{
			Provider: ProviderOpenRouter,
			Kind:     KindEmptyResponse,
			Status:   resp.StatusCode,
			Model:    model,
			Message:  msg,
		}
	}

	used := gjson.GetBytes(body, "model").String()
	if used == "" {
		used = model
	}
	d.log.Info("openrouter completion received", "model", used, "length", len(text))
	return &Completion{Text: text, Model: used}, nil
}

// classifyOpenRouter maps a non-2xx response onto a ProviderError. The status
// code or the envelope's error.code selects the category.
func classifyOpenRouter(status int, body []byte) *ProviderError {
	code := int(gjson.GetBytes(body, "error.code").Int())
	apiMsg := errorMessage(body)
	is := func(c int) bool { return status == c || code == c }

	e := &ProviderError{Provider: ProviderOpenRouter, Status: status}
	switch {
	case is(http.StatusUnauthorized):
		e.Kind = KindInvalidCredentials
		e.Message = "API key is invalid or missing; check SITEGEN_LLM_OPENROUTER_API_KEY and verify the key at https://openrouter.ai/keys"
	case is(http.StatusTooManyRequests):
		e.Kind = KindRateLimited
		e.Message = "rate limit reached or traffic is high; "
		if raw := gjson.GetBytes(body, "error.metadata.raw").String(); raw != "" {
			e.Message += raw
		} else {
			e.Message += "try again in a few seconds"
		}
	case is(http.StatusBadRequest):
		lower := strings.ToLower(apiMsg)
		switch {
		case apiMsg == "":
			e.Kind = KindMalformedRequest
			e.Message = "invalid request; check the configured model and request format"
		case strings.Contains(lower, "token") || strings.Contains(lower, "exceed"):
			e.Kind = KindPromptTooLong
			e.Message = "prompt is too long or exceeds the model token limit; use a shorter prompt or ask for less detail"
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

// firstString returns the first non-empty string value among paths.
func firstString(body []byte, paths ...string) string {
	for _, r := range gjson.GetManyBytes(body, paths...) {
		if r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
			return r.Str
		}
	}
	return ""
}

// errorMessage extracts error.message, falling back to the raw error object.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	errObj := gjson.GetBytes(body, "error")
	if !errObj.Exists() {
		return ""
	}
	if msg := errObj.Get("message").String(); msg != "" {
		return msg
	}
	return errObj.Raw
}

func orBody(msg string, body []byte) string {
	if msg != "" {
		return msg
	}
	return snippet(body)
}

func dataURI(img *Image) string {
	return "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func keyPrefix(key string) string {
	if len(key) > 6 {
		return key[:6] + "..."
	}
	return "..."
}
