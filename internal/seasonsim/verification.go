package seasonsim

import (
	"context"
	"errors"
	"fmt"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/nflverse"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/firstscore"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
)

// ErrVerification reports a written season that does not read back as
// generated.
var ErrVerification = errors.New("season verification failed")

// Verify reloads the files under dir and checks that the extractor finds
// exactly the first scorers recorded while generating out.
func Verify(ctx context.Context, dir string, out *Output) error {
	src := nflverse.NewSource(dir, nflverse.WithDownload(false), nflverse.WithLogger(logger.Nop()))
	season, err := src.Load(ctx, out.Season.Year)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}

	if got, want := len(season.Games), len(out.Season.Games); got != want {
		return fmt.Errorf("%w: read %d games, wrote %d", ErrVerification, got, want)
	}
	if got, want := len(season.Plays), len(out.Season.Plays); got != want {
		return fmt.Errorf("%w: read %d plays, wrote %d", ErrVerification, got, want)
	}

	res := firstscore.New(season.RosterIndex()).Extract(season.Plays)
	if res.Len() != len(out.Expected) {
		return fmt.Errorf("%w: extracted %d first touchdowns, expected %d", ErrVerification, res.Len(), len(out.Expected))
	}
	for gameID, want := range out.Expected {
		td, ok := res.ByGame(gameID)
		if !ok {
			return fmt.Errorf("%w: game %s has no first touchdown", ErrVerification, gameID)
		}
		if td.Scorer != want {
			return fmt.Errorf("%w: game %s first scorer %q, expected %q", ErrVerification, gameID, td.Scorer, want)
		}
	}

	logger.Get().Info(ctx, "verified season files",
		logger.Int("games", len(season.Games)),
		logger.Int("firstTouchdowns", res.Len()),
	)
	return nil
}
