package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/situational"
)

// TeamsDependencies defines the interface for team history reads.
type TeamsDependencies interface {
	TeamHistory(ctx context.Context, team string) ([]situational.HistoryEntry, error)
}

// TeamsHandler handles team history requests.
type TeamsHandler struct {
	deps TeamsDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamsDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleGetHistory handles GET /teams/{team}/history requests.
func (h *TeamsHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	team, rest, ok := strings.Cut(strings.TrimPrefix(r.URL.Path, "/teams/"), "/")
	if !ok || rest != "history" || team == "" {
		http.NotFound(w, r)
		return
	}
	hist, err := h.deps.TeamHistory(r.Context(), strings.ToUpper(team))
	if err != nil {
		writeDepError(w, Wrap(op, err))
		return
	}
	if hist == nil {
		hist = []situational.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, hist)
}
