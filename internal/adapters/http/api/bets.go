package api

import (
	"context"
	"errors"
	"net/http"
)

// BetsDependencies defines the interface for board listing.
type BetsDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
}

// BetsHandler handles value-bet board requests.
type BetsHandler struct {
	deps     BetsDependencies
	maxLimit int
}

// NewBetsHandler creates a new bets handler.
func NewBetsHandler(deps BetsDependencies, maxLimit int) *BetsHandler {
	return &BetsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetBets handles GET /bets?limit=N requests.
func (h *BetsHandler) HandleGetBets(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_bets"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	def := defaultBetLimit
	if def > h.maxLimit {
		def = h.maxLimit
	}
	n, err := parseLimit(r, op, def, h.maxLimit)
	if err != nil {
		code := "bad_request"
		if errors.Is(err, ErrLimitExceeded) {
			code = "limit_exceeded"
		}
		writeError(w, http.StatusBadRequest, code, err)
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeDepError(w, Wrap(op, err))
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
