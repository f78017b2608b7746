// Package linker joins scheduled games to externally quoted market events.
package linker

import (
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// DefaultTolerance bounds the kickoff distance accepted by LinkNearest.
const DefaultTolerance = 36 * time.Hour

// Option applies a configuration option to the Linker.
type Option func(*Linker)

// WithDirectory sets the team directory used to expand codes.
func WithDirectory(d TeamDirectory) Option {
	return func(l *Linker) {
		if d.Len() > 0 {
			l.teams = d
		}
	}
}

// WithTolerance sets the nearest-mode window.
func WithTolerance(d time.Duration) Option {
	return func(l *Linker) {
		if d > 0 {
			l.tolerance = d
		}
	}
}

// Linker matches games to market events.
type Linker struct {
	teams     TeamDirectory
	tolerance time.Duration
}

// New creates a Linker with the default team directory and tolerance.
func New(opts ...Option) *Linker {
	l := &Linker{
		teams:     DefaultTeamDirectory(),
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Link is one game joined to one market event.
type Link struct {
	GameID  string `json:"game_id"`
	EventID string `json:"event_id"`
}

// Result lists links in schedule order along with the games left unmatched.
type Result struct {
	Links    []Link   `json:"links"`
	Unlinked []string `json:"unlinked"`
}

// EventFor returns the event linked to gameID.
func (r Result) EventFor(gameID string) (string, bool) {
	for _, l := range r.Links {
		if l.GameID == gameID {
			return l.EventID, true
		}
	}
	return "", false
}

// Link matches each game to the first event, in the given event order, whose
// home and away names match the game's teams and whose UTC commence date is
// the game day or the day after.
func (l *Linker) Link(games []model.Game, events []model.MarketEvent) Result {
	var res Result
	for _, g := range games {
		day, ok := g.Date()
		if !ok {
			res.Unlinked = append(res.Unlinked, g.ID)
			continue
		}
		home := Normalize(l.teams.FullName(g.HomeTeam))
		away := Normalize(l.teams.FullName(g.AwayTeam))

		linked := false
		for _, ev := range events {
			if ev.CommenceTime.IsZero() {
				continue
			}
			if !teamsMatch(home, Normalize(ev.HomeTeam)) || !teamsMatch(away, Normalize(ev.AwayTeam)) {
				continue
			}
			if !sameOrNextDay(day, ev.CommenceTime) {
				continue
			}
			res.Links = append(res.Links, Link{GameID: g.ID, EventID: ev.ID})
			linked = true
			break
		}
		if !linked {
			res.Unlinked = append(res.Unlinked, g.ID)
		}
	}
	return res
}

type matchup struct {
	home, away string
}

// LinkNearest resolves every event to a (home, away) code pair and links each
// game to the event with the same pair whose commence time is nearest the
// kickoff, within the tolerance. Equal distances keep the earlier event.
func (l *Linker) LinkNearest(games []model.Game, events []model.MarketEvent) Result {
	byKey := make(map[matchup][]model.MarketEvent)
	for _, ev := range events {
		if ev.CommenceTime.IsZero() {
			continue
		}
		home, okH := l.teams.Code(ev.HomeTeam)
		away, okA := l.teams.Code(ev.AwayTeam)
		if !okH || !okA {
			continue
		}
		k := matchup{home: home, away: away}
		byKey[k] = append(byKey[k], ev)
	}

	var res Result
	for _, g := range games {
		kickoff, ok := g.Kickoff()
		if !ok {
			res.Unlinked = append(res.Unlinked, g.ID)
			continue
		}
		best := ""
		bestDist := time.Duration(-1)
		for _, ev := range byKey[matchup{home: g.HomeTeam, away: g.AwayTeam}] {
			dist := absDuration(ev.CommenceTime.Sub(kickoff))
			if dist > l.tolerance {
				continue
			}
			if bestDist < 0 || dist < bestDist {
				best, bestDist = ev.ID, dist
			}
		}
		if best == "" {
			res.Unlinked = append(res.Unlinked, g.ID)
			continue
		}
		res.Links = append(res.Links, Link{GameID: g.ID, EventID: best})
	}
	return res
}

func sameOrNextDay(day, commence time.Time) bool {
	c := commence.UTC()
	cd := time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, time.UTC)
	return cd.Equal(day) || cd.Equal(day.AddDate(0, 0, 1))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
