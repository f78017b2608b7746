// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // kickoff times are US/Eastern; do not depend on host zoneinfo
)

// Date and clock layouts used by schedule rows.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Eastern is the zone schedule kickoff times are published in.
var Eastern = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Game is one scheduled contest.
type Game struct {
	ID       string `json:"game_id"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`
	GameType string `json:"game_type,omitempty"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Gameday  string `json:"gameday"`  // YYYY-MM-DD
	Gametime string `json:"gametime"` // HH:MM, US/Eastern
}

// Date parses Gameday as a UTC calendar date.
func (g Game) Date() (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(g.Gameday))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Kickoff returns the kickoff instant. A missing or malformed Gametime falls
// back to midnight Eastern of the game day.
func (g Game) Kickoff() (time.Time, bool) {
	d, ok := g.Date()
	if !ok {
		return time.Time{}, false
	}
	h, m, _ := g.Clock()
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, Eastern), true
}

// Clock parses Gametime into hour and minute.
func (g Game) Clock() (hour, minute int, ok bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(g.Gametime), ":")
	if !found {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(hs)
	m, err2 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// Involves reports whether team played in the game.
func (g Game) Involves(team string) bool {
	return team != "" && (g.HomeTeam == team || g.AwayTeam == team)
}

// Opponent returns the other side of team in this game.
func (g Game) Opponent(team string) (string, bool) {
	switch team {
	case "":
		return "", false
	case g.HomeTeam:
		return g.AwayTeam, true
	case g.AwayTeam:
		return g.HomeTeam, true
	}
	return "", false
}

// Chronological reports whether a kicks off before b by (gameday, gametime)
// string order, the order schedule files sort in.
func Chronological(a, b Game) bool {
	if a.Gameday != b.Gameday {
		return a.Gameday < b.Gameday
	}
	return a.Gametime < b.Gametime
}
