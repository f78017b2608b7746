package seasonsim

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/nflverse"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
)

// ErrInvalidConfig is returned for unusable simulation settings.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Defaults fills zero fields of cfg.
func (c *Config) Defaults() {
	if c.Weeks == 0 {
		c.Weeks = DefaultWeeks
	}
	if c.Played == 0 {
		c.Played = min(DefaultPlayed, c.Weeks)
	}
	if len(c.Teams) == 0 {
		c.Teams = DefaultTeams
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
}

// Validate checks cfg after Defaults.
func (c *Config) Validate() error {
	switch {
	case c.Season < 1999:
		return fmt.Errorf("%w: season %d", ErrInvalidConfig, c.Season)
	case c.Weeks < 1:
		return fmt.Errorf("%w: weeks must be positive", ErrInvalidConfig)
	case c.Played < 0 || c.Played > c.Weeks:
		return fmt.Errorf("%w: played weeks must be within [0,%d]", ErrInvalidConfig, c.Weeks)
	case len(c.Teams) < 2:
		return fmt.Errorf("%w: need at least two teams", ErrInvalidConfig)
	case len(c.Teams)*len(depth) > len(firstNames)*len(lastNames):
		return fmt.Errorf("%w: too many teams for unique names", ErrInvalidConfig)
	}
	return nil
}

// Generate simulates a season in memory.
func Generate(ctx context.Context, cfg *Config) (*Output, *Stats, error) {
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	stats := &Stats{StartTime: time.Now()}

	roster := Roster(cfg.Teams)
	games := Schedule(cfg.Season, cfg.Weeks, cfg.Teams)
	rows, err := generateGames(ctx, cfg, games, roster, stats)
	if err != nil {
		return nil, nil, err
	}

	out := &Output{
		Season:   &model.Season{Year: cfg.Season, Games: games, Roster: roster},
		Expected: make(map[string]string),
	}
	for _, r := range rows {
		out.Season.Plays = append(out.Season.Plays, r.plays...)
		if r.first != "" {
			out.Expected[r.game.ID] = r.first
		}
	}
	stats.RosterSize = len(roster)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	return out, stats, nil
}

// Write stores out under dir with the file names the nflverse source reads.
func Write(ctx context.Context, dir string, out *Output) error {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	s := out.Season
	files := []struct {
		name  string
		gzip  bool
		write func(io.Writer) error
	}{
		{nflverse.ScheduleFile, false, func(w io.Writer) error { return nflverse.WriteGames(w, s.Games) }},
		{nflverse.PlaysFile(s.Year), true, func(w io.Writer) error { return nflverse.WritePlays(w, s.Plays) }},
		{nflverse.RosterFile(s.Year), false, func(w io.Writer) error { return nflverse.WriteRoster(w, s.Roster) }},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, f.name)
		if err := writeFile(path, f.gzip, f.write); err != nil {
			return err
		}
		logger.Get().Info(ctx, "wrote season file", logger.String("path", path))
	}
	return nil
}

func writeFile(path string, compress bool, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	var w io.Writer = f
	var zw *gzip.Writer
	if compress {
		zw = gzip.NewWriter(f)
		w = zw
	}
	if err := write(w); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compress %s: %w", path, err)
		}
	}
	return nil
}

// Run generates, writes and verifies a season under cfg.OutDir.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	logger.Get().Info(ctx, "starting season simulation",
		logger.Int("season", cfg.Season),
		logger.Int("weeks", cfg.Weeks),
		logger.Int("played", cfg.Played),
		logger.String("out", cfg.OutDir),
	)

	out, stats, err := Generate(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("season generation failed: %w", err)
	}
	if err := Write(ctx, cfg.OutDir, out); err != nil {
		return nil, fmt.Errorf("season write failed: %w", err)
	}
	if err := Verify(ctx, cfg.OutDir, out); err != nil {
		return nil, fmt.Errorf("season verification failed: %w", err)
	}

	logger.Get().Info(ctx, "season simulation complete",
		logger.Int("games", stats.Games),
		logger.Int("played", stats.PlayedGames),
		logger.Int("plays", stats.Plays),
		logger.Int("touchdowns", stats.Touchdowns),
		logger.Int("firstTouchdowns", stats.FirstTouchdowns),
		logger.Duration("took", stats.Duration),
	)
	return stats, nil
}
