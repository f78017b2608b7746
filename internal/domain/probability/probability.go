// Package probability turns first-touchdown history into per-player
// empirical scoring rates.
package probability

import (
	"sort"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// Windows holds, per team, the completed games that count toward rates.
type Windows map[string]map[string]struct{}

// Size returns the number of valid games for team.
func (w Windows) Size(team string) int { return len(w[team]) }

// Contains reports whether gameID is in team's valid set.
func (w Windows) Contains(team, gameID string) bool {
	_, ok := w[team][gameID]
	return ok
}

// Completed returns the schedule games that have a recorded first touchdown,
// stably ordered by game day and kickoff time.
func Completed(games []model.Game, tds []model.FirstTouchdown) []model.Game {
	scored := make(map[string]struct{}, len(tds))
	for _, td := range tds {
		scored[td.GameID] = struct{}{}
	}
	var out []model.Game
	seen := make(map[string]struct{})
	for _, g := range games {
		if _, ok := scored[g.ID]; !ok {
			continue
		}
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return model.Chronological(out[i], out[j]) })
	return out
}

// BuildWindows computes each team's valid game set over completed games:
// all of them, or the last lastN when lastN is positive.
func BuildWindows(completed []model.Game, lastN int) Windows {
	perTeam := make(map[string][]string)
	for _, g := range completed {
		perTeam[g.HomeTeam] = append(perTeam[g.HomeTeam], g.ID)
		if g.AwayTeam != g.HomeTeam {
			perTeam[g.AwayTeam] = append(perTeam[g.AwayTeam], g.ID)
		}
	}
	w := make(Windows, len(perTeam))
	for team, ids := range perTeam {
		if lastN > 0 && len(ids) > lastN {
			ids = ids[len(ids)-lastN:]
		}
		set := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		w[team] = set
	}
	return w
}

type tally struct {
	team  string
	id    string
	count int
}

// Compute returns player first-touchdown probabilities ordered by
// probability, then first touchdowns, both descending, then player name.
// A player is credited to the team of their latest touchdown, and only
// touchdowns in that team's valid game set count.
func Compute(games []model.Game, tds []model.FirstTouchdown, lastN int) []model.PlayerProbability {
	completed := Completed(games, tds)
	if len(completed) == 0 {
		return nil
	}
	windows := BuildWindows(completed, lastN)

	byGame := make(map[string]model.FirstTouchdown, len(tds))
	for _, td := range tds {
		if _, dup := byGame[td.GameID]; !dup {
			byGame[td.GameID] = td
		}
	}

	// Final team: the team on the player's chronologically latest first TD.
	players := make(map[string]*tally)
	for _, g := range completed {
		td := byGame[g.ID]
		t, ok := players[td.Scorer]
		if !ok {
			t = &tally{}
			players[td.Scorer] = t
		}
		t.team = td.Team
		if td.ScorerID != "" {
			t.id = td.ScorerID
		}
	}
	for _, g := range completed {
		td := byGame[g.ID]
		t := players[td.Scorer]
		if windows.Contains(t.team, g.ID) {
			t.count++
		}
	}

	out := make([]model.PlayerProbability, 0, len(players))
	for name, t := range players {
		n := windows.Size(t.team)
		if n == 0 || t.count == 0 {
			continue
		}
		out = append(out, model.PlayerProbability{
			Player:      name,
			PlayerID:    t.id,
			Team:        t.team,
			FirstTDs:    t.count,
			TeamGames:   n,
			Probability: float64(t.count) / float64(n),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.FirstTDs != b.FirstTDs {
			return a.FirstTDs > b.FirstTDs
		}
		return a.Player < b.Player
	})
	return out
}

// ByPlayer indexes probabilities by player name.
func ByPlayer(probs []model.PlayerProbability) map[string]model.PlayerProbability {
	out := make(map[string]model.PlayerProbability, len(probs))
	for _, p := range probs {
		out[p.Player] = p
	}
	return out
}
