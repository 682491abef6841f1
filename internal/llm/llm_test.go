package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/joestump/sitegen/internal/config"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/prompt"
)

var testPrompt = prompt.Composed{System: "system text", User: "user text"}

func testConfig(openRouterURL, geminiURL string) config.LLM {
	return config.LLM{
		DefaultProvider: "openrouter",
		Timeout:         5 * time.Second,
		OpenRouter: config.OpenRouter{
			APIKey:        "sk-or-test",
			BaseURL:       openRouterURL,
			Model:         "anthropic/claude-3.5-sonnet",
			Referer:       "http://localhost:8080",
			Title:         "AI Web Generator",
			MaxInputUnits: 45000,
		},
		Gemini: config.Gemini{
			APIKey:         "gem-key",
			BaseURL:        geminiURL,
			Model:          "gemini-2.5-flash",
			FallbackModels: []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-pro"},
			MaxInputUnits:  250000,
		},
	}
}

// capture records every request body and path seen by a fake provider.
type capture struct {
	mu     sync.Mutex
	paths  []string
	bodies [][]byte
	header []http.Header
}

func (c *capture) record(r *http.Request) []byte {
	body, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, r.URL.Path)
	c.bodies = append(c.bodies, body)
	c.header = append(c.header, r.Header.Clone())
	return body
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestDispatch_OpenRouterSuccess(t *testing.T) {
	var rec capture
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeBody(w, 200, `{"model":"anthropic/claude-3.5-sonnet","choices":[{"message":{"content":"<html></html>"}}]}`)
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL, ""), logger.Nop())
	got, err := d.Dispatch(context.Background(), testPrompt, ProviderOpenRouter, nil, "")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.Text != "<html></html>" {
		t.Errorf("text = %q", got.Text)
	}
	if got.Model != "anthropic/claude-3.5-sonnet" {
		t.Errorf("model = %q", got.Model)
	}

	h := rec.header[0]
	if h.Get("Authorization") != "Bearer sk-or-test" {
		t.Errorf("authorization header = %q", h.Get("Authorization"))
	}
	if h.Get("HTTP-Referer") != "http://localhost:8080" {
		t.Errorf("referer header = %q", h.Get("HTTP-Referer"))
	}
	if h.Get("X-Title") != "AI Web Generator" {
		t.Errorf("title header = %q", h.Get("X-Title"))
	}

	body := rec.bodies[0]
	if gjson.GetBytes(body, "max_tokens").Int() != 8000 {
		t.Errorf("max_tokens = %s, want 8000 for claude", gjson.GetBytes(body, "max_tokens").Raw)
	}
	if gjson.GetBytes(body, "temperature").Float() != 0.85 {
		t.Errorf("temperature = %s", gjson.GetBytes(body, "temperature").Raw)
	}
	if gjson.GetBytes(body, "messages.0.role").String() != "system" ||
		gjson.GetBytes(body, "messages.0.content").String() != "system text" {
		t.Errorf("system message = %s", gjson.GetBytes(body, "messages.0").Raw)
	}
	if gjson.GetBytes(body, "messages.1.content").String() != "user text" {
		t.Errorf("user message = %s", gjson.GetBytes(body, "messages.1").Raw)
	}
}

func TestDispatch_DefaultProvider(t *testing.T) {
	var rec capture
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeBody(w, 200, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL, ""), logger.Nop())
	if _, err := d.Dispatch(context.Background(), testPrompt, "", nil, ""); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if rec.count() != 1 {
		t.Errorf("expected the default provider to be called once, got %d", rec.count())
	}
}

func TestDispatch_OpenRouterFallbackContentPaths(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message content", `{"choices":[{"message":{"content":"a"}}]}`, "a"},
		{"choice text", `{"choices":[{"text":"b"}]}`, "b"},
		{"data text", `{"data":[{"text":"c"}]}`, "c"},
		{"top level content", `{"content":"d"}`, "d"},
		{"empty message falls through", `{"choices":[{"message":{"content":""},"text":"e"}]}`, "e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeBody(w, 200, tt.body)
			}))
			defer srv.Close()

			d := NewDispatcher(testConfig(srv.URL, ""), logger.Nop())
			got, err := d.Dispatch(context.Background(), testPrompt, ProviderOpenRouter, nil, "")
			if err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if got.Text != tt.want {
				t.Errorf("text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestDispatch_OpenRouterErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    ErrorKind
		wantMessage string
	}{
		{"unauthorized", 401, `{"error":{"message":"No auth"}}`, KindInvalidCredentials, "API key is invalid"},
		{"rate limited with raw", 429, `{"error":{"message":"slow down","metadata":{"raw":"upstream busy"}}}`, KindRateLimited, "upstream busy"},
		{"rate limited without raw", 429, `{"error":{"message":"slow down"}}`, KindRateLimited, "try again in a few seconds"},
		{"error code in body", 402, `{"error":{"code":429,"message":"x"}}`, KindRateLimited, "rate limit"},
		{"token limit", 400, `{"error":{"message":"This model's maximum context length is 200000 tokens"}}`, KindPromptTooLong, "prompt is too long"},
		{"exceed", 400, `{"error":{"message":"input exceeds limit"}}`, KindPromptTooLong, "prompt is too long"},
		{"malformed", 400, `{"error":{"message":"invalid model id"}}`, KindMalformedRequest, "invalid model id"},
		{"malformed without message", 400, `{}`, KindMalformedRequest, "check the configured model"},
		{"server error", 502, `{"error":{"message":"bad gateway"}}`, KindServerError, "bad gateway"},
		{"unknown", 418, `teapot`, KindUnknown, "teapot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeBody(w, tt.status, tt.body)
			}))
			defer srv.Close()

			d := NewDispatcher(testConfig(srv.URL, ""), logger.Nop())
			_, err := d.Dispatch(context.Background(), testPrompt, ProviderOpenRouter, nil, "")
			var pErr *ProviderError
			if !errors.As(err, &pErr) {
				t.Fatalf("error = %v, want *ProviderError", err)
			}
			if pErr.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", pErr.Kind, tt.wantKind)
			}
			if !strings.Contains(pErr.Message, tt.wantMessage) {
				t.Errorf("message = %q, want it to contain %q", pErr.Message, tt.wantMessage)
			}
			if pErr.Status != tt.status {
				t.Errorf("status = %d, want %d", pErr.Status, tt.status)
			}
		})
	}
}

func TestDispatch_OpenRouterEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"choices":[],"error":{"message":"moderation blocked"}}`)
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL, ""), logger.Nop())
	_, err := d.Dispatch(context.Background(), testPrompt, ProviderOpenRouter, nil, "")
	var pErr *ProviderError
	if !errors.As(err, &pErr) || pErr.Kind != KindEmptyResponse {
		t.Fatalf("error = %v, want empty response", err)
	}
	if !strings.Contains(pErr.Message, "moderation blocked") {
		t.Errorf("message = %q, want the API error message", pErr.Message)
	}
}

func TestDispatch_MissingKeyIsConfigError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeBody(w, 200, `{}`)
	}))
	defer srv.Close()

	for _, p := range []Provider{ProviderOpenRouter, ProviderGemini} {
		cfg := testConfig(srv.URL, srv.URL)
		cfg.OpenRouter.APIKey = ""
		cfg.Gemini.APIKey = ""
		d := NewDispatcher(cfg, logger.Nop())

		_, err := d.Dispatch(context.Background(), testPrompt, p, nil, "")
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: error = %v, want *ConfigError", p, err)
		}
	}
	if calls != 0 {
		t.Errorf("no network call expected, got %d", calls)
	}
}

func TestDispatch_UnsupportedProvider(t *testing.T) {
	d := NewDispatcher(testConfig("", ""), logger.Nop())
	_, err := d.Dispatch(context.Background(), testPrompt, Provider("cohere"), nil, "")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestDispatch_OpenRouterVision(t *testing.T) {
	var rec capture
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeBody(w, 200, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL, ""), logger.Nop())
	img := &Image{Data: []byte("png-bytes"), MimeType: "image/png"}

	// claude-3.5 is vision capable.
	if _, err := d.Dispatch(context.Background(), testPrompt, ProviderOpenRouter, img, ""); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	// mistral is not.
	if _, err := d.Dispatch(context.Background(), testPrompt, ProviderOpenRouter, img, "mistralai/mistral-large"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	vision := rec.bodies[0]
	if gjson.GetBytes(vision, "messages.1.content.0.type").String() != "text" {
		t.Errorf("vision content should be a part list: %s", gjson.GetBytes(vision, "messages.1.content").Raw)
	}
	if !strings.Contains(gjson.GetBytes(vision, "messages.1.content.0.text").String(), "ANALISA GAMBAR REFERENSI") {
		t.Errorf("vision text should include image analysis instructions")
	}
	url := gjson.GetBytes(vision, "messages.1.content.1.image_url.url").String()
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("image url = %q", url)
	}

	plain := rec.bodies[1]
	content := gjson.GetBytes(plain, "messages.1.content")
	if content.Type != gjson.String {
		t.Fatalf("non-vision content should be a string, got %s", content.Raw)
	}
	if !strings.Contains(content.String(), "REFERENCE IMAGE:") {
		t.Errorf("non-vision content should carry the reference note")
	}
	if gjson.GetBytes(plain, "model").String() != "mistralai/mistral-large" {
		t.Errorf("model override not applied")
	}
	if gjson.GetBytes(plain, "max_tokens").Int() != 16000 {
		t.Errorf("max_tokens = %d, want 16000", gjson.GetBytes(plain, "max_tokens").Int())
	}
}

func TestDispatch_OpenRouterTruncatesLongPrompt(t *testing.T) {
	var rec capture
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeBody(w, 200, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, "")
	cfg.OpenRouter.MaxInputUnits = 2000
	d := NewDispatcher(cfg, logger.Nop())

	long := prompt.Composed{System: strings.Repeat("s", 700), User: strings.Repeat("u", 20000)}
	if _, err := d.Dispatch(context.Background(), long, ProviderOpenRouter, nil, ""); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	user := gjson.GetBytes(rec.bodies[0], "messages.1.content").String()
	if !strings.HasSuffix(user, TruncationNotice) {
		t.Errorf("truncated prompt should end with the notice")
	}
	if EstimateUnits(long.System)+EstimateUnits(user) > 2000 {
		t.Errorf("estimate %d exceeds ceiling", EstimateUnits(long.System)+EstimateUnits(user))
	}
	if gjson.GetBytes(rec.bodies[0], "messages.0.content").String() != long.System {
		t.Errorf("system text must not be truncated")
	}
}

func TestDispatch_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, "")
	cfg.Timeout = 50 * time.Millisecond
	d := NewDispatcher(cfg, logger.Nop())

	_, err := d.Dispatch(context.Background(), testPrompt, ProviderOpenRouter, nil, "")
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if !tErr.Timeout {
		t.Errorf("expected timeout flag")
	}
	if Outcome(err) != "timeout" {
		t.Errorf("outcome = %q, want timeout", Outcome(err))
	}
}

func TestDispatch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and notices
		// the client disconnect on older Go toolchains.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	d := NewDispatcher(testConfig(srv.URL, srv.URL), logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := d.Dispatch(ctx, testPrompt, ProviderGemini, nil, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

// geminiServer responds per model name taken from the request path.
func geminiServer(t *testing.T, rec *capture, responses map[string]func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		if r.URL.Query().Get("key") != "gem-key" {
			writeBody(w, 403, `{"error":{"message":"bad key"}}`)
			return
		}
		model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/models/"), ":generateContent")
		if fn, ok := responses[model]; ok {
			fn(w)
			return
		}
		writeBody(w, 404, `{"error":{"message":"models/`+model+` is not found for API version v1beta"}}`)
	}))
}

func geminiOK(text string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		b, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
			}},
		})
		writeBody(w, 200, string(b))
	}
}

func TestDispatch_GeminiSuccessFirstModel(t *testing.T) {
	var rec capture
	srv := geminiServer(t, &rec, map[string]func(http.ResponseWriter){
		"gemini-2.5-flash": geminiOK("<html>ok</html>"),
	})
	defer srv.Close()

	d := NewDispatcher(testConfig("", srv.URL), logger.Nop())
	got, err := d.Dispatch(context.Background(), testPrompt, ProviderGemini, nil, "")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.Text != "<html>ok</html>" || got.Model != "gemini-2.5-flash" {
		t.Errorf("completion = %+v", got)
	}
	if rec.count() != 1 {
		t.Errorf("calls = %d, want 1", rec.count())
	}

	body := rec.bodies[0]
	if gjson.GetBytes(body, "contents.0.parts.0.text").String() != "system text\n\nuser text" {
		t.Errorf("text part = %q", gjson.GetBytes(body, "contents.0.parts.0.text").String())
	}
	gc := gjson.GetBytes(body, "generationConfig")
	if gc.Get("topK").Int() != 40 || gc.Get("topP").Float() != 0.95 || gc.Get("maxOutputTokens").Int() != 32768 {
		t.Errorf("generationConfig = %s", gc.Raw)
	}
}

func TestDispatch_GeminiFallsBackOnModelUnavailable(t *testing.T) {
	var rec capture
	srv := geminiServer(t, &rec, map[string]func(http.ResponseWriter){
		"gemini-2.0-flash": geminiOK("fallback"),
	})
	defer srv.Close()

	d := NewDispatcher(testConfig("", srv.URL), logger.Nop())
	got, err := d.Dispatch(context.Background(), testPrompt, ProviderGemini, nil, "gemini-9-ultra")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q, want gemini-2.0-flash", got.Model)
	}
	want := []string{
		"/models/gemini-9-ultra:generateContent",
		"/models/gemini-2.5-flash:generateContent",
		"/models/gemini-2.0-flash:generateContent",
	}
	if strings.Join(rec.paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", rec.paths, want)
	}
}

func TestDispatch_GeminiStopsOnOtherErrors(t *testing.T) {
	var rec capture
	srv := geminiServer(t, &rec, map[string]func(http.ResponseWriter){
		"gemini-2.5-flash": func(w http.ResponseWriter) {
			writeBody(w, 429, `{"error":{"message":"quota"}}`)
		},
		"gemini-2.0-flash": geminiOK("never"),
	})
	defer srv.Close()

	d := NewDispatcher(testConfig("", srv.URL), logger.Nop())
	_, err := d.Dispatch(context.Background(), testPrompt, ProviderGemini, nil, "")
	var pErr *ProviderError
	if !errors.As(err, &pErr) || pErr.Kind != KindRateLimited {
		t.Fatalf("error = %v, want rate limited", err)
	}
	if rec.count() != 1 {
		t.Errorf("calls = %d, want 1: only model-unavailable responses advance", rec.count())
	}
}

func TestDispatch_GeminiExhausted(t *testing.T) {
	var rec capture
	srv := geminiServer(t, &rec, nil)
	defer srv.Close()

	d := NewDispatcher(testConfig("", srv.URL), logger.Nop())
	_, err := d.Dispatch(context.Background(), testPrompt, ProviderGemini, nil, "")
	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	var unavailable *ModelUnavailableError
	if !errors.As(err, &unavailable) || unavailable.Model != "gemini-1.5-pro" {
		t.Errorf("exhaustion should wrap the last model error, got %v", err)
	}
	if !strings.Contains(pErr.Message, "gemini-2.5-flash, gemini-2.0-flash, gemini-1.5-pro") {
		t.Errorf("message should list candidates: %q", pErr.Message)
	}
	if rec.count() != 3 {
		t.Errorf("calls = %d, want 3 (duplicate requested model skipped)", rec.count())
	}
}

func TestDispatch_GeminiErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
	}{
		{"forbidden", 403, `{"error":{"message":"denied"}}`, KindInvalidCredentials},
		{"unauthorized", 401, `{}`, KindInvalidCredentials},
		{"rate limited", 429, `{}`, KindRateLimited},
		{"bad request", 400, `{"error":{"message":"Invalid JSON payload"}}`, KindMalformedRequest},
		{"token limit", 400, `{"error":{"message":"The input token count exceeds the maximum"}}`, KindPromptTooLong},
		{"server error", 503, `{"error":{"message":"overloaded"}}`, KindServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec capture
			srv := geminiServer(t, &rec, map[string]func(http.ResponseWriter){
				"gemini-2.5-flash": func(w http.ResponseWriter) { writeBody(w, tt.status, tt.body) },
			})
			defer srv.Close()

			d := NewDispatcher(testConfig("", srv.URL), logger.Nop())
			_, err := d.Dispatch(context.Background(), testPrompt, ProviderGemini, nil, "")
			var pErr *ProviderError
			if !errors.As(err, &pErr) {
				t.Fatalf("error = %v, want *ProviderError", err)
			}
			if pErr.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", pErr.Kind, tt.wantKind)
			}
		})
	}
}

func TestDispatch_GeminiInlineImage(t *testing.T) {
	var rec capture
	srv := geminiServer(t, &rec, map[string]func(http.ResponseWriter){
		"gemini-2.5-flash": geminiOK("ok"),
	})
	defer srv.Close()

	d := NewDispatcher(testConfig("", srv.URL), logger.Nop())
	img := &Image{Data: []byte{0xff, 0xd8}, MimeType: "image/jpeg"}
	if _, err := d.Dispatch(context.Background(), testPrompt, ProviderGemini, img, ""); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	body := rec.bodies[0]
	if gjson.GetBytes(body, "contents.0.parts.1.inline_data.mime_type").String() != "image/jpeg" {
		t.Errorf("inline_data missing: %s", gjson.GetBytes(body, "contents.0.parts").Raw)
	}
	if gjson.GetBytes(body, "contents.0.parts.1.inline_data.data").String() != "/9g=" {
		t.Errorf("inline data = %q", gjson.GetBytes(body, "contents.0.parts.1.inline_data.data").String())
	}
	if !strings.Contains(gjson.GetBytes(body, "contents.0.parts.0.text").String(), "ANALISA GAMBAR REFERENSI") {
		t.Errorf("text part should carry image analysis instructions")
	}
}

func TestDispatch_GeminiEmptyResponse(t *testing.T) {
	var rec capture
	srv := geminiServer(t, &rec, map[string]func(http.ResponseWriter){
		"gemini-2.5-flash": func(w http.ResponseWriter) {
			writeBody(w, 200, `{"candidates":[{"finishReason":"SAFETY"}]}`)
		},
	})
	defer srv.Close()

	d := NewDispatcher(testConfig("", srv.URL), logger.Nop())
	_, err := d.Dispatch(context.Background(), testPrompt, ProviderGemini, nil, "")
	var pErr *ProviderError
	if !errors.As(err, &pErr) || pErr.Kind != KindEmptyResponse {
		t.Fatalf("error = %v, want empty response", err)
	}
	if !strings.Contains(pErr.Message, "SAFETY") {
		t.Errorf("message = %q", pErr.Message)
	}
}

func TestCandidateModels(t *testing.T) {
	got := candidateModels("gemini-2.0-flash", []string{"gemini-2.5-flash", "gemini-2.0-flash", " ", "gemini-1.5-pro"})
	want := "gemini-2.0-flash,gemini-2.5-flash,gemini-1.5-pro"
	if strings.Join(got, ",") != want {
		t.Errorf("candidateModels = %v, want %s", got, want)
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"", "", false},
		{"openrouter", ProviderOpenRouter, false},
		{"google_gemini", ProviderGemini, false},
		{"Gemini", ProviderGemini, false},
		{"anthropic", "", true},
	}
	for _, tt := range tests {
		got, err := ParseProvider(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseProvider(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseProvider(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
