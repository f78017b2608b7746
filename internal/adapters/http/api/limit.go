package api

import (
	"net/http"
	"strconv"
)

// parseLimit reads ?limit. A missing value yields def; anything outside
// 1..maxLimit is rejected.
func parseLimit(r *http.Request, op string, def, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, NewKind(op, ErrBadRequest)
	}
	if n > maxLimit {
		return 0, NewKind(op, ErrLimitExceeded)
	}
	return n, nil
}
