package model

import (
	"strconv"
	"strings"
)

const quarterSeconds = 15 * 60

// Play is one play-by-play row.
type Play struct {
	GameID    string
	PlayID    int64
	HasPlayID bool
	Quarter   int
	Clock     string // MM:SS remaining in the quarter
	Touchdown bool

	TDPlayerID        string
	TDPlayerName      string
	FantasyPlayerName string
	PlayerName        string
	Description       string
	TDTeam            string
	PosTeam           string

	Yardline100    int
	HasYardline100 bool
	Drive          int
	HasDrive       bool
	PlayType       string

	RusherPlayerID   string
	ReceiverPlayerID string
}

// Scoring reports whether the play qualifies as a touchdown play: the
// touchdown flag is set or a touchdown scorer name is recorded.
func (p Play) Scoring() bool {
	return p.Touchdown || strings.TrimSpace(p.TDPlayerName) != ""
}

// Elapsed returns seconds elapsed in the quarter. The clock counts down,
// so 15:00 is 0 and 00:00 is 900.
func (p Play) Elapsed() (int, bool) {
	ms, ss, ok := strings.Cut(strings.TrimSpace(p.Clock), ":")
	if !ok {
		return 0, false
	}
	m, err1 := strconv.Atoi(ms)
	s, err2 := strconv.Atoi(ss)
	if err1 != nil || err2 != nil || m < 0 || s < 0 || s > 59 {
		return 0, false
	}
	return quarterSeconds - (m*60 + s), true
}

// InRedZone reports whether the ball was at or inside the opponent's 20.
func (p Play) InRedZone() bool {
	return p.HasYardline100 && p.Yardline100 <= 20
}
