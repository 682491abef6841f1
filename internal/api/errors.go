package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joestump/sitegen/internal/llm"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/objectstore"
	"github.com/joestump/sitegen/internal/projects"
	"github.com/joestump/sitegen/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// providerStatus maps a classified provider failure onto a status and code.
var providerStatus = map[llm.ErrorKind]struct {
	status int
	code   string
}{
	llm.KindInvalidCredentials: {http.StatusBadGateway, "LLM_INVALID_CREDENTIALS"},
	llm.KindRateLimited:        {http.StatusTooManyRequests, "LLM_RATE_LIMITED"},
	llm.KindMalformedRequest:   {http.StatusBadGateway, "LLM_BAD_REQUEST"},
	llm.KindPromptTooLong:      {http.StatusRequestEntityTooLarge, "LLM_PROMPT_TOO_LONG"},
	llm.KindServerError:        {http.StatusBadGateway, "LLM_SERVER_ERROR"},
	llm.KindEmptyResponse:      {http.StatusBadGateway, "LLM_EMPTY_RESPONSE"},
}

// errorStatus maps a service error onto an HTTP status, a client-facing
// message and an error code.
func errorStatus(err error) (int, string, string) {
	var verr *projects.ValidationError
	var cfgErr *llm.ConfigError
	var pErr *llm.ProviderError
	var tErr *llm.TransportError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error(), "BAD_REQUEST"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, objectstore.ErrNotFound):
		return http.StatusNotFound, "not found", "NOT_FOUND"
	case errors.Is(err, projects.ErrNoDocument):
		return http.StatusConflict, "the project has no generated document yet, generate it first", "NO_DOCUMENT"
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable, cfgErr.Error(), "LLM_NOT_CONFIGURED"
	case errors.As(err, &pErr):
		if m, ok := providerStatus[pErr.Kind]; ok {
			return m.status, pErr.Message, m.code
		}
		return http.StatusBadGateway, pErr.Message, "LLM_ERROR"
	case errors.As(err, &tErr):
		if tErr.Timeout {
			return http.StatusGatewayTimeout, "the AI provider did not answer in time, try again", "LLM_TIMEOUT"
		}
		return http.StatusBadGateway, "could not reach the AI provider", "LLM_TRANSPORT"
	default:
		return http.StatusInternalServerError, "internal error", "INTERNAL"
	}
}

// writeServiceError writes err using errorStatus. Unexpected errors are
// logged since their details are not sent to the client.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	status, message, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	}
	writeError(w, status, message, code)
}
