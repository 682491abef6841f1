package api

import (
	"net/http"

	"github.com/joestump/sitegen/internal/session"
)

// flashHandler pops the pending flash message of the caller's session.
// GET /api/v1/flash
func flashHandler(flash *session.Flasher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := FlashResponse{}
		if f := flash.Pop(r.Context()); f != nil {
			resp.Flash = &FlashMessage{Type: f.Type, Message: f.Message}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
