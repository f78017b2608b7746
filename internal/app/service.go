// Package service runs the first-touchdown pipeline and serves its results
// to the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/repository"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/dedupe"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/linker"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/odds"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/situational"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/types"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// Link modes.
const (
	LinkFirst   = "first"
	LinkNearest = "nearest"
)

// SeasonLoader provides the season snapshot a run works on.
type SeasonLoader interface {
	Load(ctx context.Context, season int) (*model.Season, error)
}

// MarketSource lists market events and fetches their quotes.
type MarketSource interface {
	Events(ctx context.Context) ([]model.MarketEvent, error)
	Fetch(ctx context.Context, job model.FetchJob) ([]model.MarketQuote, error)
}

// Service implements the API dependencies for the analyzer.
type Service struct {
	mu    sync.RWMutex
	runMu sync.Mutex

	loader  SeasonLoader
	market  MarketSource
	board   repository.Store
	deduper dedupe.Deduper

	// Configuration
	season        int
	week          int
	lastN         int
	settings      odds.Settings
	linkMode      string
	linkTolerance time.Duration
	directory     linker.TeamDirectory
	workerCount   int
	queueSize     int
	now           func() time.Time

	// State
	started bool
	latest  atomic.Pointer[types.Report]
	games   atomic.Pointer[[]model.Game]
	runs    atomic.Int64
	failed  atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSeason sets the season to analyze.
func WithSeason(season int) Option {
	return func(s *Service) { s.season = season }
}

// WithWeek pins the week scanned for bets. Zero picks the next week with
// games on or after today.
func WithWeek(week int) Option {
	return func(s *Service) {
		if week >= 0 {
			s.week = week
		}
	}
}

// WithLastNGames windows probabilities to each team's last n games.
func WithLastNGames(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.lastN = n
		}
	}
}

// WithMarket enables the odds phase.
func WithMarket(m MarketSource) Option {
	return func(s *Service) { s.market = m }
}

// WithOddsSettings sets staking and matching parameters.
func WithOddsSettings(o odds.Settings) Option {
	return func(s *Service) { s.settings = o }
}

// WithLinkMode selects "first" or "nearest" linking. tolerance applies to
// nearest mode.
func WithLinkMode(mode string, tolerance time.Duration) Option {
	return func(s *Service) {
		if mode == LinkFirst || mode == LinkNearest {
			s.linkMode = mode
		}
		if tolerance > 0 {
			s.linkTolerance = tolerance
		}
	}
}

// WithTeamDirectory replaces the team name directory used for linking.
func WithTeamDirectory(d linker.TeamDirectory) Option {
	return func(s *Service) { s.directory = d }
}

// WithWorkerCount sets the number of fetch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the fetch queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStore replaces the value-bet board.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.board = store
		}
	}
}

// WithClock overrides the wall clock used for week selection.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service reading seasons from loader.
func New(loader SeasonLoader, opts ...Option) *Service {
	s := &Service{
		loader:        loader,
		settings:      odds.DefaultSettings(),
		linkMode:      LinkFirst,
		linkTolerance: linker.DefaultTolerance,
		directory:     linker.DefaultTeamDirectory(),
		workerCount:   runtime.NumCPU(),
		queueSize:     64,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.board == nil {
		s.board = repository.NewBoardStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.queueSize * 4))
	return s
}

// Start marks the service ready. It does not run the pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.started = true
	s.logger.Info(ctx, "analyzer service started",
		logger.Int("season", s.season),
		logger.Int("week", s.week),
		logger.Bool("market", s.market != nil),
		logger.String("link_mode", s.linkMode),
		logger.Int("workers", s.workerCount),
	)
	return nil
}

// Stop marks the service stopped. Results stay readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "analyzer service stopped")
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get().Named("service")
	}
	return l
}

// Latest returns the most recent report.
func (s *Service) Latest(ctx context.Context) (*types.Report, error) {
	r := s.latest.Load()
	if r == nil {
		return nil, ErrNoReport
	}
	return r, nil
}

// TopN returns the best n value bets.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.board.TopN(ctx, n)
}

// Rank returns the board entry of player.
func (s *Service) Rank(ctx context.Context, player string) (types.Entry, error) {
	return s.board.Rank(ctx, player)
}

// Refresh re-runs the pipeline.
func (s *Service) Refresh(ctx context.Context) (*types.Report, error) {
	return s.Run(ctx)
}

// TeamHistory lists team's games of the latest season with first scorers.
func (s *Service) TeamHistory(ctx context.Context, team string) ([]situational.HistoryEntry, error) {
	r := s.latest.Load()
	games := s.games.Load()
	if r == nil || games == nil {
		return nil, ErrNoReport
	}
	return situational.TeamHistory(*games, r.FirstTouchdowns, team), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"season":      s.season,
		"week":        s.week,
		"linkMode":    s.linkMode,
		"marketFeed":  s.market != nil,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"runs":        s.runs.Load(),
		"failedRuns":  s.failed.Load(),
		"boardSize":   s.board.Count(ctx),
		"seenEvents":  s.deduper.Size(),
	}
	if r := s.latest.Load(); r != nil {
		stats["lastRunId"] = r.RunID
		stats["lastRunAt"] = r.GeneratedAt
		stats["lastRunMs"] = r.DurationMS
		stats["reportSeason"] = r.Season
		stats["reportWeek"] = r.Week
		if r.OddsError != "" {
			stats["oddsError"] = r.OddsError
		}
	}

	metrics.UpdateBoardSize(s.board.Count(ctx))
	return stats
}
