package model

// UnknownTeam marks a touchdown whose scoring team was not recorded.
const UnknownTeam = "UNK"

// FirstTouchdown is the earliest touchdown of a game.
type FirstTouchdown struct {
	GameID   string `json:"game_id"`
	Scorer   string `json:"player"`
	ScorerID string `json:"player_id,omitempty"`
	Team     string `json:"team"`
}

// PlayerProbability is a player's empirical first-touchdown rate.
type PlayerProbability struct {
	Player      string  `json:"player"`
	PlayerID    string  `json:"player_id,omitempty"`
	Team        string  `json:"team"`
	FirstTDs    int     `json:"first_tds"`
	TeamGames   int     `json:"team_games"`
	Probability float64 `json:"prob"`
}

// Season is the immutable snapshot one pipeline run works on.
type Season struct {
	Year     int
	Games    []Game
	Plays    []Play
	Roster   []RosterEntry
	rosterIx *Roster
}

// RosterIndex returns the roster index, building it on first use.
func (s *Season) RosterIndex() *Roster {
	if s.rosterIx == nil {
		s.rosterIx = NewRoster(s.Roster)
	}
	return s.rosterIx
}

// GamesByID indexes the schedule. The first row wins on duplicate ids.
func GamesByID(games []Game) map[string]Game {
	out := make(map[string]Game, len(games))
	for _, g := range games {
		if _, dup := out[g.ID]; !dup {
			out[g.ID] = g
		}
	}
	return out
}
