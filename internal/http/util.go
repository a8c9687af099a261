package httpx

import (
	"net/http"
	"strconv"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// parsePageParams reads the "current" and "pageSize" params the judge API
// paginates by, clamped to sane bounds.
func parsePageParams(r *http.Request) (int, int) {
	page := parseIntQuery(r, "current", 1)
	if page < 1 {
		page = 1
	}
	size := parseIntQuery(r, "pageSize", DefaultPageSize)
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
