package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/http/api"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/http/swagger"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/nflverse"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/oddsapi"
	app "github.com/akursar1107/nfl-first-td-analyzer/internal/app"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/config"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/odds"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/types"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := logger.Init(); err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return 1
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	rep, runErr := svc.Run(ctx)
	if runErr != nil {
		log.Error(ctx, "pipeline run failed", logger.Error(runErr))
	} else {
		logSummary(ctx, log, rep)
	}

	if !cfg.Serve {
		if runErr != nil {
			return 1
		}
		return 0
	}
	if err := serve(ctx, cfg, svc, log); err != nil {
		log.Error(ctx, "HTTP server failed", logger.Error(err))
		return 1
	}
	return 0
}

// newService wires the season loader, optional odds feed and staking
// settings from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	source := nflverse.NewSource(cfg.DataDir,
		nflverse.WithDownload(cfg.Download),
		nflverse.WithLogger(log.Named("nflverse")),
	)

	settings := odds.DefaultSettings()
	settings.Market = cfg.OddsMarket
	settings.Bankroll = decimal.NewFromFloat(cfg.Bankroll)
	settings.KellyFraction = cfg.KellyFraction
	settings.MinNameLength = cfg.MinNameLength

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithSeason(cfg.Season),
		app.WithWeek(cfg.Week),
		app.WithLastNGames(cfg.LastNGames),
		app.WithOddsSettings(settings),
		app.WithLinkMode(cfg.LinkMode, cfg.LinkTolerance()),
		app.WithWorkerCount(cfg.FetchWorkers),
		app.WithQueueSize(cfg.FetchQueueSize),
	}
	if client := newOddsClient(cfg, log); client != nil {
		opts = append(opts, app.WithMarket(client))
	} else {
		log.Warn(context.Background(), "no odds api key configured; value bets disabled")
	}
	return app.New(source, opts...)
}

// newOddsClient returns nil without an API key.
func newOddsClient(cfg *config.Config, log logger.Logger) *oddsapi.Client {
	if cfg.OddsAPIKey == "" {
		return nil
	}
	opts := []oddsapi.Option{
		oddsapi.WithBaseURL(cfg.OddsBaseURL),
		oddsapi.WithSport(cfg.OddsSport),
		oddsapi.WithRegion(cfg.OddsRegion),
		oddsapi.WithMarket(cfg.OddsMarket),
		oddsapi.WithTimeout(cfg.OddsTimeout()),
		oddsapi.WithLogger(log.Named("oddsapi")),
	}
	if cfg.CacheDir != "" && cfg.CacheTTLSeconds > 0 {
		opts = append(opts, oddsapi.WithCache(oddsapi.NewFileCache(cfg.CacheDir, cfg.CacheTTL())))
	}
	return oddsapi.NewClient(cfg.OddsAPIKey, opts...)
}

func newHTTPServer(cfg *config.Config, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	swagger.Register(mux)
	api.NewServer(svc, svc, api.WithMaxLimit(cfg.MaxBetsLimit)).Register(mux)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// serve blocks until ctx is cancelled, then shuts the server down.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	srv := newHTTPServer(cfg, svc)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%w: %w", api.ErrServe, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(ctx, "server stopped")
	return nil
}

// logSummary reports the headline numbers of rep.
func logSummary(ctx context.Context, log logger.Logger, rep *types.Report) {
	if rep == nil {
		return
	}
	fields := []logger.Field{
		logger.String("run_id", rep.RunID),
		logger.Int("season", rep.Season),
		logger.Int("week", rep.Week),
		logger.Int("first_tds", len(rep.FirstTouchdowns)),
		logger.Int("players", len(rep.Probabilities)),
		logger.Int("value_bets", len(rep.ValueBets)),
	}
	if len(rep.ValueBets) > 0 {
		best := rep.ValueBets[0]
		fields = append(fields,
			logger.String("best_player", best.Player),
			logger.Int("best_price", best.Price),
			logger.Float64("best_ev", best.EV),
			logger.String("best_kelly", best.Kelly.StringFixed(2)),
		)
	}
	if rep.OddsError != "" {
		fields = append(fields, logger.String("odds_error", rep.OddsError))
	}
	log.Info(ctx, "analysis complete", fields...)
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
