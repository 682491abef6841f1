package api

import (
	"encoding/base64"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// parsePagination extracts the offset carried by the cursor and the limit
// from query parameters. limit defaults to 50 and is silently capped at 200.
func parsePagination(r *http.Request) (offset, limit int) {
	limit = defaultLimit

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if n, err := strconv.Atoi(decodeCursor(r.URL.Query().Get("cursor"))); err == nil && n > 0 {
		offset = n
	}
	return offset, limit
}

// nextCursor returns the cursor of the page after one that started at offset
// and held n items, or nil on the last page.
func nextCursor(offset, n, total int) *string {
	if offset+n >= total || n == 0 {
		return nil
	}
	c := encodeCursor(strconv.Itoa(offset + n))
	return &c
}

// encodeCursor encodes an opaque pagination cursor from a string value.
func encodeCursor(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value))
}

// decodeCursor decodes an opaque pagination cursor back to the original string.
// Returns an empty string if the cursor is empty or invalid.
func decodeCursor(cursor string) string {
	if cursor == "" {
		return ""
	}
	b, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return ""
	}
	return string(b)
}
