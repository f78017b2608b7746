package api

import (
	"context"
	"net/http"
	"time"
)

// RefreshDependencies defines the interface for pipeline reruns.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (*Report, error)
}

// RefreshHandler handles refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	DurationMS  float64   `json:"duration_ms"`
	ValueBets   int       `json:"value_bets"`
	OddsError   string    `json:"odds_error,omitempty"`
}

// HandleRefresh handles POST /refresh requests.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rep, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeDepError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		RunID:       rep.RunID,
		GeneratedAt: rep.GeneratedAt,
		DurationMS:  rep.DurationMS,
		ValueBets:   len(rep.ValueBets),
		OddsError:   rep.OddsError,
	})
}
