package llm

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name    string
		system  string
		user    string
		ceiling int
		wantCut bool
	}{
		{"fits", "sys", "short user text", 100, false},
		{"no ceiling", "sys", strings.Repeat("x", 100000), 0, false},
		{"over budget", strings.Repeat("s", 350), strings.Repeat("u", 20000), 1000, true},
		{"too little room", strings.Repeat("s", 3000), strings.Repeat("u", 5000), 1100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := Truncate(tt.system, tt.user, tt.ceiling)
			if cut != tt.wantCut {
				t.Fatalf("cut = %v, want %v", cut, tt.wantCut)
			}
			if !cut {
				if got != tt.user {
					t.Errorf("user text changed without a cut")
				}
				return
			}
			if !strings.HasSuffix(got, TruncationNotice) {
				t.Errorf("missing truncation notice")
			}
			if EstimateUnits(tt.system)+EstimateUnits(got) > tt.ceiling {
				t.Errorf("estimate %d over ceiling %d", EstimateUnits(tt.system)+EstimateUnits(got), tt.ceiling)
			}
			if !strings.HasPrefix(tt.user, strings.TrimSuffix(got, TruncationNotice)) {
				t.Errorf("truncated text is not a prefix of the original")
			}
		})
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	user := strings.Repeat("é", 10000)
	got, cut := Truncate("", user, 2000)
	if !cut {
		t.Fatal("expected a cut")
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated text is not valid UTF-8")
	}
}

func TestEstimateUnits(t *testing.T) {
	if got := EstimateUnits(strings.Repeat("a", 35)); got != 10 {
		t.Errorf("EstimateUnits = %d, want 10", got)
	}
	if got := EstimateUnits(""); got != 0 {
		t.Errorf("EstimateUnits(\"\") = %d, want 0", got)
	}
}

func TestMaxOutputTokens(t *testing.T) {
	tests := []struct {
		provider Provider
		model    string
		want     int
	}{
		{ProviderOpenRouter, "amazon/nova-pro-v1", 15000},
		{ProviderOpenRouter, "anthropic/claude-3.5-sonnet", 8000},
		{ProviderOpenRouter, "openai/gpt-4o", 8000},
		{ProviderOpenRouter, "meta-llama/llama-3.1-70b", 16000},
		{ProviderGemini, "gemini-2.5-flash", 32768},
	}
	for _, tt := range tests {
		if got := MaxOutputTokens(tt.provider, tt.model); got != tt.want {
			t.Errorf("MaxOutputTokens(%s, %s) = %d, want %d", tt.provider, tt.model, got, tt.want)
		}
	}
}

func TestSupportsVision(t *testing.T) {
	tests := []struct {
		provider Provider
		model    string
		want     bool
	}{
		{ProviderOpenRouter, "openai/gpt-4o", true},
		{ProviderOpenRouter, "anthropic/claude-3-opus", true},
		{ProviderOpenRouter, "mistralai/mistral-large", false},
		{ProviderGemini, "gemini-2.0-flash", true},
		{ProviderGemini, "learnlm-1.5", false},
	}
	for _, tt := range tests {
		if got := SupportsVision(tt.provider, tt.model); got != tt.want {
			t.Errorf("SupportsVision(%s, %s) = %v, want %v", tt.provider, tt.model, got, tt.want)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&ConfigError{Provider: ProviderGemini}, "config_error"},
		{&TransportError{Timeout: true}, "timeout"},
		{&TransportError{}, "transport_error"},
		{&ProviderError{Kind: KindRateLimited}, "rate_limited"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRedactKey(t *testing.T) {
	for _, msg := range []string{
		"Post https://x/models/m:generateContent?key=abc%2Bdef: connection refused",
		"dial failed for key abc+def",
	} {
		err := redactKey(errors.New(msg), "abc+def")
		if strings.Contains(err.Error(), "abc") {
			t.Errorf("key leaked: %s", err)
		}
	}
}

func TestRedactKey_URLErrorChain(t *testing.T) {
	const key = "abc+def"
	raw := &url.Error{
		Op:  "Post",
		URL: "https://x/models/m:generateContent?key=" + url.QueryEscape(key),
		Err: context.DeadlineExceeded,
	}
	err := redactKey(raw, key)

	for e := err; e != nil; e = errors.Unwrap(e) {
		if strings.Contains(e.Error(), "abc") {
			t.Errorf("key leaked in wrapped error: %s", e)
		}
	}
	var uerr *url.Error
	if !errors.As(err, &uerr) || strings.Contains(uerr.URL, "abc") {
		t.Errorf("url.Error should remain with a redacted URL, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) || !isTimeout(err) {
		t.Errorf("deadline cause should survive redaction")
	}
}
