// Package firstscore finds the first touchdown of every game in a play log.
package firstscore

import (
	"sort"
	"strings"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithResolvers replaces the scorer resolution chain.
func WithResolvers(resolvers ...Resolver) Option {
	return func(e *Extractor) {
		if len(resolvers) > 0 {
			e.resolvers = resolvers
		}
	}
}

// WithGames restricts extraction to the given game ids.
func WithGames(ids ...string) Option {
	return func(e *Extractor) {
		if len(ids) == 0 {
			return
		}
		e.only = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			e.only[id] = struct{}{}
		}
	}
}

// Extractor selects one first-touchdown play per game.
type Extractor struct {
	resolvers []Resolver
	only      map[string]struct{}
}

// New creates an Extractor. Without WithResolvers it uses DefaultResolvers
// over the given roster.
func New(roster *model.Roster, opts ...Option) *Extractor {
	e := &Extractor{resolvers: DefaultResolvers(roster)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result holds extracted first touchdowns ordered by game id.
type Result struct {
	Touchdowns []model.FirstTouchdown
	byGame     map[string]model.FirstTouchdown
}

// ByGame looks up the first touchdown of a game.
func (r Result) ByGame(gameID string) (model.FirstTouchdown, bool) {
	td, ok := r.byGame[gameID]
	return td, ok
}

// Len returns the number of games with a first touchdown.
func (r Result) Len() int { return len(r.Touchdowns) }

// Extract scans plays and returns the first touchdown of each game whose
// scorer can be resolved. Games without a resolvable scorer are omitted.
func (e *Extractor) Extract(plays []model.Play) Result {
	res := Result{byGame: make(map[string]model.FirstTouchdown)}

	groups := make(map[string][]model.Play)
	var order []string
	for _, p := range plays {
		if p.GameID == "" || !p.Scoring() {
			continue
		}
		if e.only != nil {
			if _, ok := e.only[p.GameID]; !ok {
				continue
			}
		}
		if _, seen := groups[p.GameID]; !seen {
			order = append(order, p.GameID)
		}
		groups[p.GameID] = append(groups[p.GameID], p)
	}
	sort.Strings(order)

	for _, gameID := range order {
		first := earliest(groups[gameID])
		scorer, ok := e.resolve(first)
		if !ok {
			continue
		}
		td := model.FirstTouchdown{
			GameID:   gameID,
			Scorer:   scorer,
			ScorerID: strings.TrimSpace(first.TDPlayerID),
			Team:     scoringTeam(first),
		}
		res.Touchdowns = append(res.Touchdowns, td)
		res.byGame[gameID] = td
	}
	return res
}

func (e *Extractor) resolve(p model.Play) (string, bool) {
	for _, r := range e.resolvers {
		if name, ok := r.Resolve(p); ok {
			return name, name != ""
		}
	}
	return "", false
}

// earliest orders one game's scoring plays by play id when all of them carry
// one, otherwise by quarter and elapsed game clock. Ties keep log order.
func earliest(plays []model.Play) model.Play {
	byPlayID := true
	for _, p := range plays {
		if !p.HasPlayID {
			byPlayID = false
			break
		}
	}

	sorted := make([]model.Play, len(plays))
	copy(sorted, plays)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if byPlayID {
			return a.PlayID < b.PlayID
		}
		if a.Quarter != b.Quarter {
			return a.Quarter < b.Quarter
		}
		ea, okA := a.Elapsed()
		eb, okB := b.Elapsed()
		switch {
		case okA && okB:
			return ea < eb
		case okA != okB:
			return okA // unparseable clocks sort last
		}
		return false
	})
	return sorted[0]
}

func scoringTeam(p model.Play) string {
	if t := strings.TrimSpace(p.TDTeam); t != "" {
		return t
	}
	if t := strings.TrimSpace(p.PosTeam); t != "" {
		return t
	}
	return model.UnknownTeam
}
