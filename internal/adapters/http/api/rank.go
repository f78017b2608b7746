package api

import (
	"context"
	"net/http"
	"strings"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, player string) (Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /bets/{player} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	player := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/bets/"))
	if player == "" || strings.Contains(player, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), player)
	if err != nil {
		writeDepError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
