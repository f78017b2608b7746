package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/config"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/seasonsim"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		season  = flag.Int("season", config.SeasonFor(time.Now()), "Season year")
		weeks   = flag.Int("weeks", seasonsim.DefaultWeeks, "Weeks to schedule")
		played  = flag.Int("played", seasonsim.DefaultPlayed, "Weeks with play-by-play")
		seed    = flag.Uint64("seed", 1, "Random seed")
		workers = flag.Int("workers", seasonsim.DefaultWorkers, "Concurrent game generators")
		out     = flag.String("out", "data", "Output directory")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seasonsim.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seasonsim.Config{
		Season:  *season,
		Weeks:   *weeks,
		Played:  *played,
		Seed:    *seed,
		Workers: *workers,
		OutDir:  *out,
	}
	if _, err := seasonsim.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
