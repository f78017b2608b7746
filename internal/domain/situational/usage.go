// Package situational computes red-zone, opening-drive and team-level
// first-touchdown context.
package situational

import (
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// Usage counts a player's opportunities (rushes plus targets) and
// touchdowns in some slice of the play log.
type Usage struct {
	Opportunities int `json:"opps"`
	Touchdowns    int `json:"tds"`
}

// RedZone tallies usage on plays snapped at or inside the opponent's 20,
// keyed by roster name or, when unknown, player id.
func RedZone(plays []model.Play, roster *model.Roster) map[string]Usage {
	return tally(plays, roster, model.Play.InRedZone)
}

type driveKey struct {
	game, team string
}

// OpeningDrive tallies usage on each team's first drive of every game.
func OpeningDrive(plays []model.Play, roster *model.Roster) map[string]Usage {
	first := make(map[driveKey]int)
	for _, p := range plays {
		if !p.HasDrive {
			continue
		}
		k := driveKey{game: p.GameID, team: p.PosTeam}
		if d, ok := first[k]; !ok || p.Drive < d {
			first[k] = p.Drive
		}
	}
	return tally(plays, roster, func(p model.Play) bool {
		if !p.HasDrive {
			return false
		}
		d, ok := first[driveKey{game: p.GameID, team: p.PosTeam}]
		return ok && p.Drive == d
	})
}

func tally(plays []model.Play, roster *model.Roster, keep func(model.Play) bool) map[string]Usage {
	byID := make(map[string]*Usage)
	bump := func(id string) *Usage {
		u, ok := byID[id]
		if !ok {
			u = &Usage{}
			byID[id] = u
		}
		return u
	}
	for _, p := range plays {
		if !keep(p) {
			continue
		}
		if p.RusherPlayerID != "" {
			bump(p.RusherPlayerID).Opportunities++
		}
		if p.ReceiverPlayerID != "" {
			bump(p.ReceiverPlayerID).Opportunities++
		}
		if p.Touchdown && p.TDPlayerID != "" {
			bump(p.TDPlayerID).Touchdowns++
		}
	}

	out := make(map[string]Usage, len(byID))
	for id, u := range byID {
		if u.Opportunities == 0 && u.Touchdowns == 0 {
			continue
		}
		key := id
		if name, ok := roster.NameByID(id); ok {
			key = name
		}
		// two ids sharing a roster name add up
		cur := out[key]
		cur.Opportunities += u.Opportunities
		cur.Touchdowns += u.Touchdowns
		out[key] = cur
	}
	return out
}

// Split is a team's red-zone play mix.
type Split struct {
	PassPct    float64 `json:"pass_pct"`
	RunPct     float64 `json:"run_pct"`
	TotalPlays int     `json:"total_plays"`
}

// TeamRedZoneSplits reports each offense's pass and run share of red-zone
// snaps. Plays other than pass and run are ignored.
func TeamRedZoneSplits(plays []model.Play) map[string]Split {
	type counts struct{ pass, run int }
	per := make(map[string]*counts)
	for _, p := range plays {
		if !p.InRedZone() || p.PosTeam == "" {
			continue
		}
		c, ok := per[p.PosTeam]
		if !ok {
			c = &counts{}
			per[p.PosTeam] = c
		}
		switch p.PlayType {
		case "pass":
			c.pass++
		case "run":
			c.run++
		}
	}
	out := make(map[string]Split, len(per))
	for team, c := range per {
		total := c.pass + c.run
		if total == 0 {
			continue
		}
		out[team] = Split{
			PassPct:    float64(c.pass) / float64(total) * 100,
			RunPct:     float64(c.run) / float64(total) * 100,
			TotalPlays: total,
		}
	}
	return out
}
