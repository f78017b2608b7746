package nflverse

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// Default download locations.
const (
	DefaultScheduleURL = "https://github.com/nflverse/nfldata/raw/master/data/games.csv"
	DefaultReleaseURL  = "https://github.com/nflverse/nflverse-data/releases/download"

	defaultDownloadTimeout = 2 * time.Minute
)

// ScheduleFile is the schedule file name inside the data directory.
const ScheduleFile = "games.csv"

// PlaysFile returns the gzipped play-by-play file name for season.
func PlaysFile(season int) string { return fmt.Sprintf("play_by_play_%d.csv.gz", season) }

// RosterFile returns the roster file name for season.
func RosterFile(season int) string { return fmt.Sprintf("roster_%d.csv", season) }

// Source loads season snapshots from a data directory, downloading missing
// files when allowed.
type Source struct {
	dir         string
	download    bool
	scheduleURL string
	releaseURL  string
	client      *http.Client
	logger      logger.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithDownload enables fetching missing files.
func WithDownload(enabled bool) Option {
	return func(s *Source) { s.download = enabled }
}

// WithURLs overrides the schedule file URL and the release base URL.
func WithURLs(schedule, release string) Option {
	return func(s *Source) {
		if schedule != "" {
			s.scheduleURL = schedule
		}
		if release != "" {
			s.releaseURL = release
		}
	}
}

// WithHTTPClient sets the download client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSource creates a Source over dir.
func NewSource(dir string, opts ...Option) *Source {
	s := &Source{
		dir:         dir,
		scheduleURL: DefaultScheduleURL,
		releaseURL:  DefaultReleaseURL,
		client:      &http.Client{Timeout: defaultDownloadTimeout},
		logger:      logger.Get().Named("nflverse"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the schedule, play-by-play and roster of season. The schedule
// is required. Play-by-play or roster files that are missing or fail to
// download load as empty.
func (s *Source) Load(ctx context.Context, season int) (*model.Season, error) {
	out := &model.Season{Year: season}

	f, err := s.open(ctx, ScheduleFile, s.scheduleURL)
	if err != nil {
		return nil, err
	}
	out.Games, err = ReadGames(f, season)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	out.Plays, err = s.loadPlays(ctx, season)
	if err != nil {
		return nil, err
	}
	out.Roster, err = s.loadRoster(ctx, season)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "season loaded",
		logger.Int("season", season),
		logger.Int("games", len(out.Games)),
		logger.Int("plays", len(out.Plays)),
		logger.Int("roster", len(out.Roster)),
	)
	return out, nil
}

func (s *Source) loadPlays(ctx context.Context, season int) ([]model.Play, error) {
	name := PlaysFile(season)
	f, err := s.open(ctx, name, s.releaseURL+"/pbp/"+name)
	if unavailable(err) {
		s.logger.Warn(ctx, "play-by-play unavailable", logger.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("play-by-play %s: %w", name, err)
	}
	defer gz.Close()
	plays, err := ReadPlays(gz)
	if err != nil {
		return nil, fmt.Errorf("play-by-play %s: %w", name, err)
	}
	return plays, nil
}

func (s *Source) loadRoster(ctx context.Context, season int) ([]model.RosterEntry, error) {
	name := RosterFile(season)
	f, err := s.open(ctx, name, s.releaseURL+"/rosters/"+name)
	if unavailable(err) {
		s.logger.Warn(ctx, "roster unavailable", logger.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := ReadRoster(f)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", name, err)
	}
	return entries, nil
}

// unavailable reports whether an optional file can be treated as empty.
func unavailable(err error) bool {
	return errors.Is(err, ErrMissingFile) || errors.Is(err, ErrDownload)
}

// open returns the local file, downloading it first when absent.
func (s *Source) open(ctx context.Context, name, url string) (*os.File, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !s.download {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	if err := s.fetch(ctx, url, path); err != nil {
		metrics.RecordErrorByComponent("nflverse", "download_error")
		return nil, err
	}
	return os.Open(path)
}

func (s *Source) fetch(ctx context.Context, url, path string) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDownload, url, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDownload, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %s: status %d", ErrDownload, url, resp.StatusCode)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.part")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDownload, url, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	s.logger.Info(ctx, "downloaded",
		logger.String("url", url),
		logger.Int64("bytes", n),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}
