// Package defense ranks defenses by first touchdowns allowed per position
// group. Rank 1 allowed the fewest.
package defense

import (
	"encoding/json"
	"sort"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// Group is a scorer position bucket.
type Group int

// Position groups in table column order.
const (
	WR Group = iota
	RB
	TE
	QB
	Other
	Total
	numGroups
)

var groupNames = [numGroups]string{"WR", "RB", "TE", "QB", "Other", "Total"}

// RankedGroups are the groups that receive an ordinal rank.
var RankedGroups = []Group{WR, RB, TE, QB, Total}

func (g Group) String() string {
	if g < 0 || g >= numGroups {
		return "Unknown"
	}
	return groupNames[g]
}

// GroupOf buckets a roster position. Anything outside WR, RB, TE and QB is
// Other.
func GroupOf(position string) Group {
	switch position {
	case "WR":
		return WR
	case "RB":
		return RB
	case "TE":
		return TE
	case "QB":
		return QB
	}
	return Other
}

// Counts is one defense's row of allowed first touchdowns.
type Counts [numGroups]int

// Ranking is one defense's counts and ranks.
type Ranking struct {
	Team   string
	Counts Counts
	ranks  [numGroups]int
}

// Rank returns the defense's rank for g, or 0 for unranked groups.
func (r Ranking) Rank(g Group) int {
	if g < 0 || g >= numGroups {
		return 0
	}
	return r.ranks[g]
}

// Allowed returns the count for g.
func (r Ranking) Allowed(g Group) int {
	if g < 0 || g >= numGroups {
		return 0
	}
	return r.Counts[g]
}

// Ranks returns the ranked groups keyed by name.
func (r Ranking) Ranks() map[string]int {
	out := make(map[string]int, len(RankedGroups))
	for _, g := range RankedGroups {
		out[g.String()] = r.ranks[g]
	}
	return out
}

// Allowances returns every group count keyed by name.
func (r Ranking) Allowances() map[string]int {
	out := make(map[string]int, numGroups)
	for g := WR; g < numGroups; g++ {
		out[g.String()] = r.Counts[g]
	}
	return out
}

func (r Ranking) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Team    string         `json:"team"`
		Ranks   map[string]int `json:"ranks"`
		Allowed map[string]int `json:"allowed"`
	}{r.Team, r.Ranks(), r.Allowances()})
}

// Table holds the rankings of every scheduled team in first-appearance order.
type Table struct {
	rows  []Ranking
	index map[string]int
}

// Teams returns the rankings in table order.
func (t Table) Teams() []Ranking { return t.rows }

// Len returns the number of teams.
func (t Table) Len() int { return len(t.rows) }

// Team looks up a defense.
func (t Table) Team(team string) (Ranking, bool) {
	i, ok := t.index[team]
	if !ok {
		return Ranking{}, false
	}
	return t.rows[i], true
}

// Rank builds the defense table. Each first touchdown is charged to the
// opponent of the scoring team; touchdowns for games missing from the
// schedule, or whose team played in neither slot, are ignored.
func Rank(games []model.Game, tds []model.FirstTouchdown, roster *model.Roster) Table {
	t := Table{index: make(map[string]int)}
	addTeam := func(team string) {
		if team == "" {
			return
		}
		if _, ok := t.index[team]; ok {
			return
		}
		t.index[team] = len(t.rows)
		t.rows = append(t.rows, Ranking{Team: team})
	}
	for _, g := range games {
		addTeam(g.HomeTeam)
		addTeam(g.AwayTeam)
	}

	byID := model.GamesByID(games)
	for _, td := range tds {
		g, ok := byID[td.GameID]
		if !ok {
			continue
		}
		def, ok := g.Opponent(td.Team)
		if !ok {
			continue
		}
		i, ok := t.index[def]
		if !ok {
			continue
		}
		pos, _ := roster.Position(td.ScorerID, td.Scorer)
		t.rows[i].Counts[GroupOf(pos)]++
		t.rows[i].Counts[Total]++
	}

	order := make([]int, len(t.rows))
	for _, g := range RankedGroups {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return t.rows[order[a]].Counts[g] < t.rows[order[b]].Counts[g]
		})
		for rank, i := range order {
			t.rows[i].ranks[g] = rank + 1
		}
	}
	return t
}
