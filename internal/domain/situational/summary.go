package situational

import "github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"

// Summary bundles every situational table for one season snapshot.
type Summary struct {
	RedZone      map[string]Usage `json:"red_zone"`
	OpeningDrive map[string]Usage `json:"opening_drive"`
	TeamSplits   map[string]Split `json:"team_red_zone_splits"`
	Leaderboard  []TeamRate       `json:"team_leaderboard"`
	HomeAway     HomeAwaySplits   `json:"home_away"`
}

// Summarize computes the full Summary.
func Summarize(games []model.Game, plays []model.Play, roster *model.Roster, tds []model.FirstTouchdown) Summary {
	return Summary{
		RedZone:      RedZone(plays, roster),
		OpeningDrive: OpeningDrive(plays, roster),
		TeamSplits:   TeamRedZoneSplits(plays),
		Leaderboard:  TeamLeaderboard(games, tds),
		HomeAway:     HomeAway(games, tds),
	}
}
