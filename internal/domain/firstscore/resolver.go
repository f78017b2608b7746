package firstscore

import (
	"strings"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// descriptionDelimiter separates the scorer from the rest of a play
// description, e.g. "P.Mahomes pass short right to T.Kelce for 12 yards".
const descriptionDelimiter = " for "

// Resolver names the scorer of a touchdown play.
type Resolver interface {
	// Name identifies the strategy in logs and tests.
	Name() string
	// Resolve returns the scorer name and whether the strategy applied.
	Resolve(p model.Play) (string, bool)
}

// RosterResolver maps the touchdown player id to the roster full name.
type RosterResolver struct {
	Roster *model.Roster
}

func (r RosterResolver) Name() string { return "roster-id" }

func (r RosterResolver) Resolve(p model.Play) (string, bool) {
	return r.Roster.NameByID(strings.TrimSpace(p.TDPlayerID))
}

// FieldResolver reads one name-bearing field of the play.
type FieldResolver struct {
	Field string
	Get   func(model.Play) string
}

func (r FieldResolver) Name() string { return r.Field }

func (r FieldResolver) Resolve(p model.Play) (string, bool) {
	v := strings.TrimSpace(r.Get(p))
	return v, v != ""
}

// DescriptionResolver takes the text preceding " for " in the play
// description, or the whole description when the token is absent.
type DescriptionResolver struct{}

func (DescriptionResolver) Name() string { return "description" }

func (DescriptionResolver) Resolve(p model.Play) (string, bool) {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return "", false
	}
	if before, _, found := strings.Cut(desc, descriptionDelimiter); found {
		desc = strings.TrimSpace(before)
	}
	// a description is authoritative once present, even if the cut is empty
	return desc, true
}

// DefaultResolvers returns the standard chain: roster id, then the
// fantasy, player and touchdown name fields, then the description.
func DefaultResolvers(roster *model.Roster) []Resolver {
	return []Resolver{
		RosterResolver{Roster: roster},
		FieldResolver{Field: "fantasy_player_name", Get: func(p model.Play) string { return p.FantasyPlayerName }},
		FieldResolver{Field: "player_name", Get: func(p model.Play) string { return p.PlayerName }},
		FieldResolver{Field: "td_player_name", Get: func(p model.Play) string { return p.TDPlayerName }},
		DescriptionResolver{},
	}
}
