// Package config defines analyzer configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Validation errors wrap ErrInvalidConfig, loading errors wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Link modes accepted by LinkMode.
const (
	LinkModeFirst   = "first"
	LinkModeNearest = "nearest"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Serve keeps the HTTP API running after the first pipeline run.
	Serve bool `koanf:"serve"`

	// Season is the NFL season to analyze; 0 infers it from today's date.
	Season int `koanf:"season"`

	// Week pins the slate scanned for bets; 0 picks the next upcoming week.
	Week int `koanf:"week"`

	// DataDir holds schedule, play-by-play and roster CSV files.
	DataDir string `koanf:"data_dir"`

	// Download fetches missing data files from nflverse.
	Download bool `koanf:"download"`

	// Odds API settings.
	OddsAPIKey    string `koanf:"odds_api_key"`
	OddsBaseURL   string `koanf:"odds_base_url"`
	OddsSport     string `koanf:"odds_sport"`
	OddsRegion    string `koanf:"odds_region"`
	OddsMarket    string `koanf:"odds_market"`
	OddsTimeoutMS int    `koanf:"odds_timeout_ms"`

	// CacheDir and CacheTTLSeconds control the per-event odds cache.
	CacheDir        string `koanf:"cache_dir"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`

	// LastNGames windows probabilities to each team's last N games; 0 uses all.
	// Defaults to 5.
	LastNGames int `koanf:"last_n_games"`

	// Bankroll and KellyFraction size recommended stakes.
	Bankroll      float64 `koanf:"bankroll"`
	KellyFraction float64 `koanf:"kelly_fraction"`

	// MinNameLength guards fuzzy player-name containment matches.
	MinNameLength int `koanf:"min_name_length"`

	// LinkMode is "first" or "nearest".
	LinkMode string `koanf:"link_mode"`

	// LinkToleranceHours bounds nearest-mode matching.
	LinkToleranceHours int `koanf:"link_tolerance_hours"`

	// FetchWorkers and FetchQueueSize size the odds fetch pool.
	FetchWorkers   int `koanf:"fetch_workers"`
	FetchQueueSize int `koanf:"fetch_queue_size"`

	// MaxBetsLimit caps GET /bets?limit.
	MaxBetsLimit int `koanf:"max_bets_limit"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		Serve:              true,
		Season:             0,
		DataDir:            "data",
		Download:           true,
		OddsBaseURL:        "https://api.the-odds-api.com/v4/sports",
		OddsSport:          "americanfootball_nfl",
		OddsRegion:         "us",
		OddsMarket:         "player_1st_td",
		OddsTimeoutMS:      10_000,
		CacheDir:           "cache/odds",
		CacheTTLSeconds:    3600,
		LastNGames:         5,
		Bankroll:           1000,
		KellyFraction:      0.25,
		MinNameLength:      4,
		LinkMode:           LinkModeFirst,
		LinkToleranceHours: 36,
		FetchWorkers:       4,
		FetchQueueSize:     64,
		MaxBetsLimit:       100,
	}
}

// OddsTimeout returns the market client timeout.
func (c *Config) OddsTimeout() time.Duration {
	return time.Duration(c.OddsTimeoutMS) * time.Millisecond
}

// CacheTTL returns the odds cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// LinkTolerance returns the nearest-mode window.
func (c *Config) LinkTolerance() time.Duration {
	return time.Duration(c.LinkToleranceHours) * time.Hour
}

// SeasonFor returns the NFL season a date belongs to. Seasons start in
// September and run into the following calendar year.
func SeasonFor(t time.Time) int {
	if t.Month() >= time.September {
		return t.Year()
	}
	return t.Year() - 1
}

// Validate checks cross-field constraints.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.Serve && strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Season < 0:
		return fmt.Errorf("%w: season must not be negative", ErrInvalidConfig)
	case c.LastNGames < 0:
		return fmt.Errorf("%w: last_n_games must not be negative", ErrInvalidConfig)
	case c.Bankroll < 0:
		return fmt.Errorf("%w: bankroll must not be negative", ErrInvalidConfig)
	case c.KellyFraction < 0 || c.KellyFraction > 1:
		return fmt.Errorf("%w: kelly_fraction must be within [0,1]", ErrInvalidConfig)
	case c.LinkMode != LinkModeFirst && c.LinkMode != LinkModeNearest:
		return fmt.Errorf("%w: link_mode must be %q or %q", ErrInvalidConfig, LinkModeFirst, LinkModeNearest)
	case c.OddsTimeoutMS <= 0:
		return fmt.Errorf("%w: odds_timeout_ms must be positive", ErrInvalidConfig)
	case c.MaxBetsLimit < 1:
		return fmt.Errorf("%w: max_bets_limit must be at least 1", ErrInvalidConfig)
	}
	return nil
}
