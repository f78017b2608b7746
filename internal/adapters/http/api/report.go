package api

import (
	"context"
	"net/http"
)

// ReportDependencies defines the interface for report reads.
type ReportDependencies interface {
	Latest(ctx context.Context) (*Report, error)
}

// ReportHandler serves the latest report and its sections.
type ReportHandler struct {
	deps     ReportDependencies
	maxLimit int
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies, maxLimit int) *ReportHandler {
	return &ReportHandler{deps: deps, maxLimit: maxLimit}
}

func (h *ReportHandler) serve(w http.ResponseWriter, r *http.Request, op string, section func(*Report) any) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rep, err := h.deps.Latest(r.Context())
	if err != nil {
		writeDepError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, section(rep))
}

// HandleReport handles GET /report requests.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_report", func(rep *Report) any { return rep })
}

// HandleFirstTouchdowns handles GET /first-touchdowns requests.
func (h *ReportHandler) HandleFirstTouchdowns(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_first_touchdowns", func(rep *Report) any { return rep.FirstTouchdowns })
}

// HandleProbabilities handles GET /probabilities?limit=N requests. Without
// a limit every player is returned.
func (h *ReportHandler) HandleProbabilities(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_probabilities"
	n, err := parseLimit(r, op, 0, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.serve(w, r, op, func(rep *Report) any {
		probs := rep.Probabilities
		if n > 0 && n < len(probs) {
			probs = probs[:n]
		}
		return probs
	})
}

// HandleDefense handles GET /defense requests.
func (h *ReportHandler) HandleDefense(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_defense", func(rep *Report) any { return rep.Defense })
}

// HandleFunnels handles GET /funnels requests.
func (h *ReportHandler) HandleFunnels(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_funnels", func(rep *Report) any { return rep.Funnels })
}

// HandleSituational handles GET /situational requests.
func (h *ReportHandler) HandleSituational(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.get_situational", func(rep *Report) any { return rep.Situational })
}
