package nflverse_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/nflverse"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

const scheduleCSV = `game_id,season,week,game_type,gameday,gametime,away_team,home_team,away_score
2024_01_BAL_KC,2024,1,REG,2024-09-05,20:20,BAL,KC,20
2024_01_GB_PHI,2024,1,REG,2024-09-06,20:15,GB,PHI,29
2023_22_SF_KC,2023,22,SB,2024-02-11,18:30,SF,KC,22
2024_01_BAD,2024,1,REG,2024-09-08,13:00,NYJ,NYJ,NA
`

const playsCSV = `game_id,play_id,qtr,time,touchdown,td_player_id,td_player_name,desc,td_team,posteam,yardline_100,drive,play_type
2024_01_BAL_KC,40.0,1,15:00,0,NA,NA,kickoff,NA,BAL,NA,NA,kickoff
2024_01_BAL_KC,213.0,1,09:12,1.0,00-0036389,I.Likely,"L.Jackson pass to I.Likely for 9 yards, TOUCHDOWN.",BAL,BAL,9,2,pass
,999,1,01:00,1,x,y,z,BAL,BAL,1,1,run
`

const rosterCSV = `season,team,position,full_name,gsis_id
2024,BAL,te,Isaiah Likely,00-0036389
2024,KC,QB,Patrick Mahomes,00-0033873
2024,KC,,,
`

func TestReadGames(t *testing.T) {
	Convey("Given a multi-season schedule", t, func() {
		games, err := nflverse.ReadGames(strings.NewReader(scheduleCSV), 2024)
		So(err, ShouldBeNil)

		Convey("Then only the requested season's valid rows remain", func() {
			So(len(games), ShouldEqual, 2)
			So(games[0], ShouldResemble, model.Game{
				ID: "2024_01_BAL_KC", Season: 2024, Week: 1, GameType: "REG",
				HomeTeam: "KC", AwayTeam: "BAL", Gameday: "2024-09-05", Gametime: "20:20",
			})
		})

		Convey("Then season zero keeps every season", func() {
			all, err := nflverse.ReadGames(strings.NewReader(scheduleCSV), 0)
			So(err, ShouldBeNil)
			So(len(all), ShouldEqual, 3)
		})
	})

	Convey("Given a schedule without team columns", t, func() {
		_, err := nflverse.ReadGames(strings.NewReader("game_id,season\nx,2024\n"), 2024)
		So(errors.Is(err, nflverse.ErrMissingColumn), ShouldBeTrue)
	})

	Convey("Given an empty schedule", t, func() {
		_, err := nflverse.ReadGames(strings.NewReader(""), 2024)
		So(errors.Is(err, nflverse.ErrMissingColumn), ShouldBeTrue)
	})
}

func TestReadPlays(t *testing.T) {
	Convey("Given play-by-play rows", t, func() {
		plays, err := nflverse.ReadPlays(strings.NewReader(playsCSV))
		So(err, ShouldBeNil)
		So(len(plays), ShouldEqual, 2)

		Convey("Then optional columns read as missing", func() {
			k := plays[0]
			So(k.HasPlayID, ShouldBeTrue)
			So(k.PlayID, ShouldEqual, 40)
			So(k.HasDrive, ShouldBeFalse)
			So(k.HasYardline100, ShouldBeFalse)
			So(k.TDPlayerName, ShouldEqual, "")
			So(k.Scoring(), ShouldBeFalse)
		})

		Convey("Then scoring plays carry their detail", func() {
			td := plays[1]
			So(td.Touchdown, ShouldBeTrue)
			So(td.Quarter, ShouldEqual, 1)
			So(td.Clock, ShouldEqual, "09:12")
			So(td.TDPlayerID, ShouldEqual, "00-0036389")
			So(td.Description, ShouldContainSubstring, "TOUCHDOWN")
			So(td.Yardline100, ShouldEqual, 9)
			So(td.Drive, ShouldEqual, 2)
			So(td.PlayType, ShouldEqual, "pass")
			So(td.FantasyPlayerName, ShouldEqual, "")
		})
	})
}

func TestReadRoster(t *testing.T) {
	Convey("Given roster rows in any column order", t, func() {
		entries, err := nflverse.ReadRoster(strings.NewReader(rosterCSV))
		So(err, ShouldBeNil)
		So(len(entries), ShouldEqual, 2)
		So(entries[0], ShouldResemble, model.RosterEntry{
			PlayerID: "00-0036389", FullName: "Isaiah Likely", Position: "TE", Team: "BAL",
		})
	})
}

func TestWriters(t *testing.T) {
	Convey("Given rows written by the writers", t, func() {
		games := []model.Game{{ID: "g1", Season: 2024, Week: 3, GameType: "REG", HomeTeam: "KC", AwayTeam: "ATL", Gameday: "2024-09-22", Gametime: "20:20"}}
		plays := []model.Play{
			{GameID: "g1", PlayID: 10, HasPlayID: true, Quarter: 1, Clock: "12:00", Touchdown: true,
				TDPlayerID: "p1", TDPlayerName: "A.Player", Description: "A.Player 3 yd run, TOUCHDOWN",
				TDTeam: "KC", PosTeam: "KC", Yardline100: 3, HasYardline100: true, Drive: 1, HasDrive: true,
				PlayType: "run", RusherPlayerID: "p1"},
			{GameID: "g1", Quarter: 1, Clock: "11:00"},
		}
		roster := []model.RosterEntry{{PlayerID: "p1", FullName: "Alpha Player", Position: "RB", Team: "KC"}}

		var gb, pb, rb bytes.Buffer
		So(nflverse.WriteGames(&gb, games), ShouldBeNil)
		So(nflverse.WritePlays(&pb, plays), ShouldBeNil)
		So(nflverse.WriteRoster(&rb, roster), ShouldBeNil)

		Convey("Then the readers load them back", func() {
			g, err := nflverse.ReadGames(&gb, 2024)
			So(err, ShouldBeNil)
			So(g, ShouldResemble, games)

			p, err := nflverse.ReadPlays(&pb)
			So(err, ShouldBeNil)
			So(p, ShouldResemble, plays)

			r, err := nflverse.ReadRoster(&rb)
			So(err, ShouldBeNil)
			So(r, ShouldResemble, roster)
		})
	})
}

func gzipped(s string) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(s))
	_ = zw.Close()
	return buf.Bytes()
}

func TestSource(t *testing.T) {
	Convey("Given an nflverse mirror", t, func() {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			switch r.URL.Path {
			case "/games.csv":
				_, _ = io.WriteString(w, scheduleCSV)
			case "/release/pbp/play_by_play_2024.csv.gz":
				_, _ = w.Write(gzipped(playsCSV))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		dir := t.TempDir()
		ctx := context.Background()

		Convey("When downloads are enabled", func() {
			src := nflverse.NewSource(dir,
				nflverse.WithDownload(true),
				nflverse.WithURLs(srv.URL+"/games.csv", srv.URL+"/release"),
				nflverse.WithHTTPClient(srv.Client()),
			)

			Convey("Then a roster that fails to download loads as empty", func() {
				season, err := src.Load(ctx, 2024)
				So(err, ShouldBeNil)
				So(len(season.Games), ShouldEqual, 2)
				So(len(season.Plays), ShouldEqual, 2)
				So(season.Roster, ShouldBeEmpty)
			})

			Convey("Then unpublished play-by-play loads as empty", func() {
				season, err := src.Load(ctx, 2023)
				So(err, ShouldBeNil)
				So(season.Plays, ShouldBeEmpty)
				So(season.Roster, ShouldBeEmpty)
			})
		})

		Convey("When the schedule fails to download", func() {
			src := nflverse.NewSource(dir,
				nflverse.WithDownload(true),
				nflverse.WithURLs(srv.URL+"/missing.csv", srv.URL+"/release"),
				nflverse.WithHTTPClient(srv.Client()),
			)

			Convey("Then loading fails", func() {
				_, err := src.Load(ctx, 2024)
				So(errors.Is(err, nflverse.ErrDownload), ShouldBeTrue)
			})
		})

		Convey("When downloads are enabled and the roster is local", func() {
			src := nflverse.NewSource(dir,
				nflverse.WithDownload(true),
				nflverse.WithURLs(srv.URL+"/games.csv", srv.URL+"/release"),
				nflverse.WithHTTPClient(srv.Client()),
			)

			Convey("Then files are fetched once and then read locally", func() {
				So(os.WriteFile(filepath.Join(dir, nflverse.RosterFile(2024)), []byte(rosterCSV), 0o600), ShouldBeNil)

				season, err := src.Load(ctx, 2024)
				So(err, ShouldBeNil)
				So(season.Year, ShouldEqual, 2024)
				So(len(season.Games), ShouldEqual, 2)
				So(len(season.Plays), ShouldEqual, 2)
				So(len(season.Roster), ShouldEqual, 2)
				So(hits.Load(), ShouldEqual, 2)

				_, err = src.Load(ctx, 2024)
				So(err, ShouldBeNil)
				So(hits.Load(), ShouldEqual, 2)

				_, err = os.Stat(filepath.Join(dir, nflverse.PlaysFile(2024)))
				So(err, ShouldBeNil)
			})
		})

		Convey("When downloads are disabled", func() {
			src := nflverse.NewSource(dir)

			Convey("Then a missing schedule fails", func() {
				_, err := src.Load(ctx, 2024)
				So(errors.Is(err, nflverse.ErrMissingFile), ShouldBeTrue)
			})

			Convey("Then missing plays and roster load empty", func() {
				So(os.WriteFile(filepath.Join(dir, nflverse.ScheduleFile), []byte(scheduleCSV), 0o600), ShouldBeNil)
				season, err := src.Load(ctx, 2024)
				So(err, ShouldBeNil)
				So(len(season.Games), ShouldEqual, 2)
				So(season.Plays, ShouldBeEmpty)
				So(season.Roster, ShouldBeEmpty)
				So(hits.Load(), ShouldEqual, 0)
			})
		})
	})
}
