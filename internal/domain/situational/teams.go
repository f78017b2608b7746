package situational

import (
	"sort"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// standaloneHour is the kickoff hour from which a Sunday game is off the
// main slate.
const standaloneHour = 20

// TeamRate is one row of the team first-touchdown leaderboard.
type TeamRate struct {
	Rank     int     `json:"rank"`
	Team     string  `json:"team"`
	Games    int     `json:"games"`
	FirstTDs int     `json:"first_tds"`
	Pct      float64 `json:"pct"`
}

// TeamLeaderboard ranks teams by the share of their completed games in
// which they scored first. Ties order by team code.
func TeamLeaderboard(games []model.Game, tds []model.FirstTouchdown) []TeamRate {
	byGame := firstByGame(tds)
	stats := make(map[string]*TeamRate)
	row := func(team string) *TeamRate {
		r, ok := stats[team]
		if !ok {
			r = &TeamRate{Team: team}
			stats[team] = r
		}
		return r
	}
	for _, g := range dedupeGames(games) {
		td, ok := byGame[g.ID]
		if !ok {
			continue
		}
		row(g.HomeTeam).Games++
		row(g.AwayTeam).Games++
		if r, ok := stats[td.Team]; ok && g.Involves(td.Team) {
			r.FirstTDs++
		}
	}

	out := make([]TeamRate, 0, len(stats))
	for _, r := range stats {
		if r.Games > 0 {
			r.Pct = float64(r.FirstTDs) / float64(r.Games) * 100
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pct != out[j].Pct {
			return out[i].Pct > out[j].Pct
		}
		return out[i].Team < out[j].Team
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// SideSplit is a team's first-touchdown record at home and away.
type SideSplit struct {
	HomeGames int `json:"home_games"`
	HomeTDs   int `json:"home_tds"`
	AwayGames int `json:"away_games"`
	AwayTDs   int `json:"away_tds"`
}

// HomeAwaySplits summarises which side scores first, league-wide and per team.
type HomeAwaySplits struct {
	Games   int                  `json:"games"`
	HomeTDs int                  `json:"home_tds"`
	AwayTDs int                  `json:"away_tds"`
	Teams   map[string]SideSplit `json:"teams"`
}

// HomeAway computes home and away first-touchdown splits over completed games.
func HomeAway(games []model.Game, tds []model.FirstTouchdown) HomeAwaySplits {
	byGame := firstByGame(tds)
	out := HomeAwaySplits{Teams: make(map[string]SideSplit)}
	for _, g := range dedupeGames(games) {
		td, ok := byGame[g.ID]
		if !ok {
			continue
		}
		home, away := out.Teams[g.HomeTeam], out.Teams[g.AwayTeam]
		home.HomeGames++
		away.AwayGames++
		out.Games++
		switch td.Team {
		case g.HomeTeam:
			out.HomeTDs++
			home.HomeTDs++
		case g.AwayTeam:
			out.AwayTDs++
			away.AwayTDs++
		}
		out.Teams[g.HomeTeam], out.Teams[g.AwayTeam] = home, away
	}
	return out
}

// HistoryEntry is one of a team's games with its first scorer, if any.
type HistoryEntry struct {
	GameID     string `json:"game_id"`
	Week       int    `json:"week"`
	Gameday    string `json:"gameday"`
	Opponent   string `json:"opponent"`
	Home       bool   `json:"home"`
	Scorer     string `json:"scorer,omitempty"`
	ScorerTeam string `json:"scorer_team,omitempty"`
	Standalone bool   `json:"standalone"`
}

// TeamHistory lists team's scheduled games in kickoff order.
func TeamHistory(games []model.Game, tds []model.FirstTouchdown, team string) []HistoryEntry {
	byGame := firstByGame(tds)
	var mine []model.Game
	for _, g := range dedupeGames(games) {
		if g.Involves(team) {
			mine = append(mine, g)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return model.Chronological(mine[i], mine[j]) })

	out := make([]HistoryEntry, 0, len(mine))
	for _, g := range mine {
		opp, _ := g.Opponent(team)
		e := HistoryEntry{
			GameID:     g.ID,
			Week:       g.Week,
			Gameday:    g.Gameday,
			Opponent:   opp,
			Home:       g.HomeTeam == team,
			Standalone: Standalone(g),
		}
		if td, ok := byGame[g.ID]; ok {
			e.Scorer, e.ScorerTeam = td.Scorer, td.Team
		}
		out = append(out, e)
	}
	return out
}

// Standalone reports whether a game is off the Sunday main slate: any
// non-Sunday game, or a Sunday kickoff at 20:00 or later.
func Standalone(g model.Game) bool {
	d, ok := g.Date()
	if !ok {
		return false
	}
	if d.Weekday() != time.Sunday {
		return true
	}
	h, _, ok := g.Clock()
	return ok && h >= standaloneHour
}

func firstByGame(tds []model.FirstTouchdown) map[string]model.FirstTouchdown {
	out := make(map[string]model.FirstTouchdown, len(tds))
	for _, td := range tds {
		if _, dup := out[td.GameID]; !dup {
			out[td.GameID] = td
		}
	}
	return out
}

func dedupeGames(games []model.Game) []model.Game {
	seen := make(map[string]struct{}, len(games))
	out := make([]model.Game, 0, len(games))
	for _, g := range games {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	return out
}
