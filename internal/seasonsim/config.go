// Package seasonsim generates synthetic nflverse-shaped seasons for local
// runs of the analyzer without network access.
package seasonsim

import (
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// Config holds simulation settings.
type Config struct {
	Season  int      // Season year written to every row
	Weeks   int      // Number of regular season weeks to schedule
	Played  int      // Weeks with play-by-play; later weeks are upcoming
	Teams   []string // Team abbreviations; an odd count gets a bye each week
	Seed    uint64   // Seed for deterministic output
	Workers int      // Concurrent game generators
	OutDir  string   // Directory the CSV files are written to
}

// Stats holds simulation statistics.
type Stats struct {
	Games           int
	PlayedGames     int
	Plays           int
	Touchdowns      int
	FirstTouchdowns int
	RosterSize      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// Output is one generated season. Expected holds the full name of each
// played game's first touchdown scorer, keyed by game id.
type Output struct {
	Season   *model.Season
	Expected map[string]string
}
