// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/situational"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/types"
)

// Default limits.
const (
	DefaultMaxLimit = 100
	defaultBetLimit = 10
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Latest returns the most recent pipeline report.
	Latest(ctx context.Context) (*Report, error)

	// Refresh re-runs the pipeline and returns the new report.
	Refresh(ctx context.Context) (*Report, error)

	// Read operations expose the value-bet board.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, player string) (Entry, error)

	// TeamHistory lists a team's games with their first scorers.
	TeamHistory(ctx context.Context, team string) ([]situational.HistoryEntry, error)
}

// Entry mirrors the read shape returned by board queries.
type Entry = types.Entry

// Report is the pipeline output served by the read endpoints.
type Report = types.Report

// Option configures the Server.
type Option func(*Server)

// WithMaxLimit caps the limit accepted by list endpoints.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// Server wires HTTP routes for the analyzer API.
type Server struct {
	maxLimit int

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	reportHandler  *ReportHandler
	betsHandler    *BetsHandler
	rankHandler    *RankHandler
	teamsHandler   *TeamsHandler
	refreshHandler *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxLimit: DefaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.reportHandler = NewReportHandler(deps, s.maxLimit)
	s.betsHandler = NewBetsHandler(deps, s.maxLimit)
	s.rankHandler = NewRankHandler(deps)
	s.teamsHandler = NewTeamsHandler(deps)
	s.refreshHandler = NewRefreshHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	for _, rt := range s.routes() {
		mux.HandleFunc(rt.pattern, MetricsMiddleware(rt.handler, rt.endpoint))
	}
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDepError translates service errors to status codes.
func writeDepError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, types.ErrNoReport):
		writeError(w, http.StatusServiceUnavailable, "no_report", err)
	case errors.Is(err, types.ErrRunPending):
		writeError(w, http.StatusConflict, "run_pending", err)
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
