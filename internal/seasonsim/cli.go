package seasonsim

import (
	"os"
)

// ShowHelp prints usage information for the simulate tool.
func ShowHelp() {
	os.Stdout.WriteString(`First Touchdown Season Simulator
================================

Writes a synthetic season in nflverse file layout so the analyzer can run
without network access.

Usage:
  go run ./cmd/simulate [options]

Options:
  -season int
        Season year (default: current season)
  -weeks int
        Weeks to schedule (default 18)
  -played int
        Weeks with play-by-play; later weeks stay upcoming (default 4)
  -seed uint
        Random seed (default 1)
  -workers int
        Concurrent game generators (default 4)
  -out string
        Output directory (default "data")
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Simulate the first four weeks of the current season
  go run ./cmd/simulate

  # Analyze the result offline
  FIRSTTD_DATA_DIR=data FIRSTTD_DOWNLOAD=false go run ./cmd
`)
}
