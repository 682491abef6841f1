package llm

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ConfigError means a provider cannot be used as configured. It is raised
// before any network call.
type ConfigError struct {
	Provider Provider
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// TransportError wraps a failure to reach the provider at all.
type TransportError struct {
	Provider Provider
	Timeout  bool
	Err      error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: request timed out: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorKind classifies a failed provider response.
type ErrorKind string

const (
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindRateLimited        ErrorKind = "rate_limited"
	KindMalformedRequest   ErrorKind = "malformed_request"
	KindPromptTooLong      ErrorKind = "prompt_too_long"
	KindServerError        ErrorKind = "server_error"
	KindEmptyResponse      ErrorKind = "empty_response"
	KindUnknown            ErrorKind = "unknown"
)

// ProviderError is a classified, non-retryable provider failure. Message is
// meant for end users and names a remedy where one exists.
type ProviderError struct {
	Provider Provider
	Kind     ErrorKind
	Status   int
	Model    string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ModelUnavailableError reports that one candidate model does not exist or
// does not support the request. The Gemini fallback loop consumes it.
type ModelUnavailableError struct {
	Model   string
	Status  int
	Message string
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %s unavailable (%d): %s", e.Model, e.Status, e.Message)
}

// Outcome maps an error onto a short label for metrics and API error codes.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var cfgErr *ConfigError
	var tErr *TransportError
	var pErr *ProviderError
	switch {
	case errors.As(err, &cfgErr):
		return "config_error"
	case errors.As(err, &tErr):
		if tErr.Timeout {
			return "timeout"
		}
		return "transport_error"
	case errors.As(err, &pErr):
		return string(pErr.Kind)
	default:
		return "error"
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// snippet bounds a raw response body for inclusion in messages.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	return s
}
