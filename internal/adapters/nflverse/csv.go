// Package nflverse reads and writes the nflverse schedule, play-by-play and
// roster CSV files.
package nflverse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// Column headers.
var (
	gameColumns = []string{
		"game_id", "season", "week", "game_type", "home_team", "away_team", "gameday", "gametime",
	}
	playColumns = []string{
		"game_id", "play_id", "qtr", "time", "touchdown",
		"td_player_id", "td_player_name", "fantasy_player_name", "player_name", "desc",
		"td_team", "posteam", "yardline_100", "drive", "play_type",
		"rusher_player_id", "receiver_player_id",
	}
	rosterColumns = []string{"gsis_id", "full_name", "position", "team"}
)

// header maps column names to record positions. Unknown columns read as "".
type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	names, err := r.Read()
	if errors.Is(err, io.EOF) {
		if len(required) > 0 {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return header{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(names))
	for i, n := range names {
		n = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(n, "\ufeff")))
		if _, dup := h[n]; !dup {
			h[n] = i
		}
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return h, nil
}

func (h header) get(rec []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(rec) {
		return ""
	}
	v := strings.TrimSpace(rec[i])
	if v == "NA" {
		return ""
	}
	return v
}

// num parses integers that may be written as floats ("12.0").
func (h header) num(rec []string, col string) (int64, bool) {
	v := h.get(rec, col)
	if v == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

func (h header) flag(rec []string, col string) bool {
	switch strings.ToLower(h.get(rec, col)) {
	case "1", "1.0", "true", "t", "yes":
		return true
	}
	return false
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

func eachRecord(cr *csv.Reader, fn func(rec []string)) error {
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		fn(rec)
	}
}

// ReadGames parses a schedule. season > 0 keeps only that season's rows.
// Rows without a game id and rows whose home and away teams agree are
// dropped.
func ReadGames(r io.Reader, season int) ([]model.Game, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "game_id", "home_team", "away_team")
	if err != nil {
		return nil, err
	}
	var games []model.Game
	err = eachRecord(cr, func(rec []string) {
		s, _ := h.num(rec, "season")
		if season > 0 && s != 0 && int(s) != season {
			return
		}
		g := model.Game{
			ID:       h.get(rec, "game_id"),
			Season:   int(s),
			GameType: h.get(rec, "game_type"),
			HomeTeam: h.get(rec, "home_team"),
			AwayTeam: h.get(rec, "away_team"),
			Gameday:  h.get(rec, "gameday"),
			Gametime: h.get(rec, "gametime"),
		}
		if w, ok := h.num(rec, "week"); ok {
			g.Week = int(w)
		}
		if g.ID == "" || g.HomeTeam == g.AwayTeam {
			return
		}
		games = append(games, g)
	})
	return games, err
}

// ReadPlays parses play-by-play rows.
func ReadPlays(r io.Reader) ([]model.Play, error) {
	cr := newReader(r)
	h, err := readHeader(cr, "game_id")
	if err != nil {
		return nil, err
	}
	var plays []model.Play
	err = eachRecord(cr, func(rec []string) {
		p := model.Play{
			GameID:            h.get(rec, "game_id"),
			Clock:             h.get(rec, "time"),
			Touchdown:         h.flag(rec, "touchdown"),
			TDPlayerID:        h.get(rec, "td_player_id"),
			TDPlayerName:      h.get(rec, "td_player_name"),
			FantasyPlayerName: h.get(rec, "fantasy_player_name"),
			PlayerName:        h.get(rec, "player_name"),
			Description:       h.get(rec, "desc"),
			TDTeam:            h.get(rec, "td_team"),
			PosTeam:           h.get(rec, "posteam"),
			PlayType:          h.get(rec, "play_type"),
			RusherPlayerID:    h.get(rec, "rusher_player_id"),
			ReceiverPlayerID:  h.get(rec, "receiver_player_id"),
		}
		p.PlayID, p.HasPlayID = h.num(rec, "play_id")
		if q, ok := h.num(rec, "qtr"); ok {
			p.Quarter = int(q)
		}
		if y, ok := h.num(rec, "yardline_100"); ok {
			p.Yardline100, p.HasYardline100 = int(y), true
		}
		if d, ok := h.num(rec, "drive"); ok {
			p.Drive, p.HasDrive = int(d), true
		}
		if p.GameID == "" {
			return
		}
		plays = append(plays, p)
	})
	return plays, err
}

// ReadRoster parses roster rows.
func ReadRoster(r io.Reader) ([]model.RosterEntry, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	var entries []model.RosterEntry
	err = eachRecord(cr, func(rec []string) {
		e := model.RosterEntry{
			PlayerID: h.get(rec, "gsis_id"),
			FullName: h.get(rec, "full_name"),
			Position: strings.ToUpper(h.get(rec, "position")),
			Team:     h.get(rec, "team"),
		}
		if e.PlayerID == "" && e.FullName == "" {
			return
		}
		entries = append(entries, e)
	})
	return entries, err
}

func writeAll(w io.Writer, cols []string, n int, row func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func itoa(n int) string { return strconv.Itoa(n) }

func optional(n int, ok bool) string {
	if !ok {
		return "NA"
	}
	return strconv.Itoa(n)
}

// WriteGames writes a schedule in the layout ReadGames reads.
func WriteGames(w io.Writer, games []model.Game) error {
	return writeAll(w, gameColumns, len(games), func(i int) []string {
		g := games[i]
		return []string{g.ID, itoa(g.Season), itoa(g.Week), g.GameType, g.HomeTeam, g.AwayTeam, g.Gameday, g.Gametime}
	})
}

// WritePlays writes play-by-play rows in the layout ReadPlays reads.
func WritePlays(w io.Writer, plays []model.Play) error {
	return writeAll(w, playColumns, len(plays), func(i int) []string {
		p := plays[i]
		playID := "NA"
		if p.HasPlayID {
			playID = strconv.FormatInt(p.PlayID, 10)
		}
		td := "0"
		if p.Touchdown {
			td = "1"
		}
		return []string{
			p.GameID, playID, itoa(p.Quarter), p.Clock, td,
			p.TDPlayerID, p.TDPlayerName, p.FantasyPlayerName, p.PlayerName, p.Description,
			p.TDTeam, p.PosTeam, optional(p.Yardline100, p.HasYardline100), optional(p.Drive, p.HasDrive), p.PlayType,
			p.RusherPlayerID, p.ReceiverPlayerID,
		}
	})
}

// WriteRoster writes roster rows in the layout ReadRoster reads.
func WriteRoster(w io.Writer, entries []model.RosterEntry) error {
	return writeAll(w, rosterColumns, len(entries), func(i int) []string {
		e := entries[i]
		return []string{e.PlayerID, e.FullName, e.Position, e.Team}
	})
}
