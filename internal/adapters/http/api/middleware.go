package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// Endpoint labels used on request and error metrics.
const (
	endpointHealth     = "healthz"
	endpointStats      = "stats"
	endpointReport     = "report"
	endpointFirstTDs   = "first_touchdowns"
	endpointProbs      = "probabilities"
	endpointDefense    = "defense"
	endpointFunnels    = "funnels"
	endpointSituation  = "situational"
	endpointBets       = "bets"
	endpointRank       = "rank"
	endpointTeams      = "teams"
	endpointRefresh    = "refresh"
	endpointUnassigned = "other"
)

// route binds a mux pattern to its handler and metrics label.
type route struct {
	pattern  string
	endpoint string
	handler  http.HandlerFunc
}

func (s *Server) routes() []route {
	return []route{
		{"/healthz", endpointHealth, s.healthHandler.HandleHealth},
		{"/stats", endpointStats, s.statsHandler.HandleStats},
		{"/report", endpointReport, s.reportHandler.HandleReport},
		{"/first-touchdowns", endpointFirstTDs, s.reportHandler.HandleFirstTouchdowns},
		{"/probabilities", endpointProbs, s.reportHandler.HandleProbabilities},
		{"/defense", endpointDefense, s.reportHandler.HandleDefense},
		{"/funnels", endpointFunnels, s.reportHandler.HandleFunnels},
		{"/situational", endpointSituation, s.reportHandler.HandleSituational},
		{"/bets", endpointBets, s.betsHandler.HandleGetBets},
		{"/bets/", endpointRank, s.rankHandler.HandleGetRank},
		{"/teams/", endpointTeams, s.teamsHandler.HandleGetHistory},
		{"/refresh", endpointRefresh, s.refreshHandler.HandleRefresh},
	}
}

// MetricsMiddleware records request counts, latency and classified errors
// for one endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	if endpoint == "" {
		endpoint = endpointUnassigned
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		status := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if wrapped.statusCode >= http.StatusBadRequest {
			kind := errorKind(endpoint, wrapped.statusCode)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
			metrics.RecordErrorByType(kind, errorSeverity(kind))
		}
	}
}

// errorKind names a failed response after what went wrong on that route.
func errorKind(endpoint string, status int) string {
	switch status {
	case http.StatusServiceUnavailable:
		return "no_report"
	case http.StatusConflict:
		return "run_pending"
	case http.StatusNotFound:
		switch endpoint {
		case endpointRank:
			return "player_not_ranked"
		case endpointTeams:
			return "unknown_team"
		}
		return "no_route"
	case http.StatusBadRequest:
		switch endpoint {
		case endpointBets, endpointProbs:
			return "invalid_limit"
		case endpointRank:
			return "missing_player"
		}
		return "bad_request"
	}
	if status >= http.StatusInternalServerError {
		if endpoint == endpointRefresh {
			return "run_failed"
		}
		return "internal"
	}
	return "client_error"
}

// errorSeverity: failed runs and server faults page, a cold or busy
// pipeline does not.
func errorSeverity(kind string) string {
	switch kind {
	case "run_failed", "internal":
		return "high"
	case "no_report", "run_pending":
		return "low"
	default:
		return "medium"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}
