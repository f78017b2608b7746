package service_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/repository"
	service "github.com/akursar1107/nfl-first-td-analyzer/internal/app"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

var today = time.Date(2024, time.September, 10, 12, 0, 0, 0, time.UTC)

func fixtureSeason() *model.Season {
	return &model.Season{
		Year: 2024,
		Games: []model.Game{
			{ID: "g1", Season: 2024, Week: 1, HomeTeam: "KC", AwayTeam: "BAL", Gameday: "2024-09-05", Gametime: "20:20"},
			{ID: "g2", Season: 2024, Week: 1, HomeTeam: "BUF", AwayTeam: "ARI", Gameday: "2024-09-08", Gametime: "13:00"},
			{ID: "g3", Season: 2024, Week: 2, HomeTeam: "BAL", AwayTeam: "LV", Gameday: "2024-09-15", Gametime: "13:00"},
			{ID: "g4", Season: 2024, Week: 2, HomeTeam: "BUF", AwayTeam: "MIA", Gameday: "2024-09-15", Gametime: "20:20"},
		},
		Plays: []model.Play{
			{GameID: "g1", PlayID: 100, HasPlayID: true, Quarter: 1, Clock: "10:00", Touchdown: true,
				TDPlayerID: "te1", TDTeam: "KC", PosTeam: "KC", PlayType: "pass", ReceiverPlayerID: "te1",
				Yardline100: 4, HasYardline100: true, Drive: 1, HasDrive: true},
			{GameID: "g1", PlayID: 300, HasPlayID: true, Quarter: 2, Clock: "05:00", Touchdown: true,
				TDPlayerID: "rb2", TDTeam: "BAL", PosTeam: "BAL", PlayType: "run", RusherPlayerID: "rb2"},
			{GameID: "g2", PlayID: 50, HasPlayID: true, Quarter: 1, Clock: "08:30", Touchdown: true,
				TDPlayerID: "rb1", TDTeam: "BUF", PosTeam: "BUF", PlayType: "run", RusherPlayerID: "rb1",
				Yardline100: 2, HasYardline100: true, Drive: 1, HasDrive: true},
		},
		Roster: []model.RosterEntry{
			{PlayerID: "te1", FullName: "Travis Kelce", Position: "TE", Team: "KC"},
			{PlayerID: "rb1", FullName: "James Cook", Position: "RB", Team: "BUF"},
			{PlayerID: "rb2", FullName: "Derrick Henry", Position: "RB", Team: "BAL"},
		},
	}
}

type fakeLoader struct {
	season *model.Season
	err    error
}

func (f *fakeLoader) Load(ctx context.Context, season int) (*model.Season, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.season, nil
}

type fakeMarket struct {
	mu        sync.Mutex
	events    []model.MarketEvent
	eventsErr error
	quotes    map[string][]model.MarketQuote
	errs      map[string]error
	fetched   []string
}

func (f *fakeMarket) Events(ctx context.Context) ([]model.MarketEvent, error) {
	return f.events, f.eventsErr
}

func (f *fakeMarket) Fetch(ctx context.Context, job model.FetchJob) ([]model.MarketQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, job.EventID)
	if err := f.errs[job.EventID]; err != nil {
		return nil, err
	}
	return f.quotes[job.EventID], nil
}

func fixtureMarket() *fakeMarket {
	return &fakeMarket{
		events: []model.MarketEvent{
			{ID: "evt-g1", HomeTeam: "Kansas City Chiefs", AwayTeam: "Baltimore Ravens", CommenceTime: time.Date(2024, 9, 6, 0, 20, 0, 0, time.UTC)},
			{ID: "evt-g3", HomeTeam: "Baltimore Ravens", AwayTeam: "Las Vegas Raiders", CommenceTime: time.Date(2024, 9, 15, 17, 0, 0, 0, time.UTC)},
			{ID: "evt-g4", HomeTeam: "Buffalo Bills", AwayTeam: "Miami Dolphins", CommenceTime: time.Date(2024, 9, 16, 0, 20, 0, 0, time.UTC)},
		},
		quotes: map[string][]model.MarketQuote{
			"evt-g4": {
				{Bookmaker: "FanDuel", Market: "player_1st_td", Player: "James Cook", Price: 150},
				{Bookmaker: "DraftKings", Market: "player_1st_td", Player: "James Cook", Price: 140},
				{Bookmaker: "FanDuel", Market: "player_1st_td", Player: "Tua Tagovailoa", Price: 2000},
			},
		},
		errs: map[string]error{},
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New(&fakeLoader{season: fixtureSeason()})

		Convey("Then it has no report until it runs", func() {
			So(svc, ShouldNotBeNil)
			_, err := svc.Latest(context.Background())
			So(errors.Is(err, service.ErrNoReport), ShouldBeTrue)
			_, err = svc.TeamHistory(context.Background(), "KC")
			So(errors.Is(err, service.ErrNoReport), ShouldBeTrue)
		})

		Convey("Then start and stop are idempotent", func() {
			ctx := context.Background()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			svc.Stop()
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a service with custom options", t, func() {
		svc := service.New(&fakeLoader{season: fixtureSeason()},
			service.WithSeason(2024),
			service.WithWeek(2),
			service.WithWorkerCount(3),
			service.WithQueueSize(10),
			service.WithLinkMode(service.LinkNearest, 12*time.Hour),
			service.WithStore(repository.NewBoardStore(repository.WithMaxEntries(5))),
		)

		Convey("Then stats reflect the configuration", func() {
			stats := svc.GetStats()
			So(stats["season"], ShouldEqual, 2024)
			So(stats["week"], ShouldEqual, 2)
			So(stats["workerCount"], ShouldEqual, 3)
			So(stats["linkMode"], ShouldEqual, service.LinkNearest)
			So(stats["marketFeed"], ShouldEqual, false)
		})
	})
}

func TestService_RunWithoutMarket(t *testing.T) {
	Convey("Given a service with no market source", t, func() {
		svc := service.New(&fakeLoader{season: fixtureSeason()}, service.WithClock(func() time.Time { return today }))
		ctx := context.Background()

		report, err := svc.Run(ctx)
		So(err, ShouldBeNil)

		Convey("Then the season tables are published", func() {
			So(report.RunID, ShouldNotBeEmpty)
			So(report.Season, ShouldEqual, 2024)
			So(len(report.FirstTouchdowns), ShouldEqual, 2)
			So(report.FirstTouchdowns[0].Scorer, ShouldEqual, "Travis Kelce")
			So(report.FirstTouchdowns[1].Scorer, ShouldEqual, "James Cook")
			So(len(report.Probabilities), ShouldEqual, 2)
			So(report.Probabilities[0].Probability, ShouldEqual, 1.0)
			So(report.Defense, ShouldNotBeEmpty)
			So(report.ValueBets, ShouldBeEmpty)
			So(report.OddsError, ShouldBeEmpty)

			latest, err := svc.Latest(ctx)
			So(err, ShouldBeNil)
			So(latest.RunID, ShouldEqual, report.RunID)
		})

		Convey("Then each run gets a fresh id", func() {
			again, err := svc.Refresh(ctx)
			So(err, ShouldBeNil)
			So(again.RunID, ShouldNotEqual, report.RunID)
			So(svc.GetStats()["runs"], ShouldEqual, int64(2))
		})

		Convey("Then team history is available", func() {
			hist, err := svc.TeamHistory(ctx, "BUF")
			So(err, ShouldBeNil)
			So(len(hist), ShouldEqual, 2)
		})
	})

	Convey("Given a loader that fails", t, func() {
		svc := service.New(&fakeLoader{err: errors.New("disk gone")})
		_, err := svc.Run(context.Background())
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "disk gone")
		So(svc.GetStats()["failedRuns"], ShouldEqual, int64(1))
	})

	Convey("Given no loader", t, func() {
		_, err := service.New(nil).Run(context.Background())
		So(errors.Is(err, service.ErrNoSeason), ShouldBeTrue)
	})
}

func TestService_RunWithMarket(t *testing.T) {
	Convey("Given a service with a market source", t, func() {
		market := fixtureMarket()
		svc := service.New(&fakeLoader{season: fixtureSeason()},
			service.WithMarket(market),
			service.WithWorkerCount(2),
			service.WithClock(func() time.Time { return today }),
		)
		ctx := context.Background()

		Convey("When every fetch succeeds", func() {
			report, err := svc.Run(ctx)
			So(err, ShouldBeNil)

			Convey("Then the upcoming week is scanned", func() {
				So(report.Week, ShouldEqual, 2)
				So(len(report.Links.Links), ShouldEqual, 3)
				So(report.Links.Unlinked, ShouldResemble, []string{"g2"})
				So(market.fetched, ShouldHaveLength, 2)
				So(market.fetched, ShouldNotContain, "evt-g1")
				So(report.OddsError, ShouldBeEmpty)
			})

			Convey("Then value bets are priced from the best quote", func() {
				So(len(report.ValueBets), ShouldEqual, 1)
				bet := report.ValueBets[0]
				So(bet.Player, ShouldEqual, "James Cook")
				So(bet.Price, ShouldEqual, 150)
				So(bet.Bookmaker, ShouldEqual, "FanDuel")
				So(bet.EV, ShouldAlmostEqual, 1.5)
				So(bet.Opponent, ShouldEqual, "MIA")
			})

			Convey("Then the board serves the bets", func() {
				top, err := svc.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 1)
				So(top[0].Rank, ShouldEqual, 1)

				entry, err := svc.Rank(ctx, "james cook")
				So(err, ShouldBeNil)
				So(entry.Player, ShouldEqual, "James Cook")

				_, err = svc.Rank(ctx, "Tua Tagovailoa")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When one fetch fails", func() {
			market.errs["evt-g3"] = errors.New("upstream 429")
			report, err := svc.Run(ctx)

			Convey("Then the run succeeds with the error recorded", func() {
				So(err, ShouldBeNil)
				So(report.OddsError, ShouldContainSubstring, "evt-g3")
				So(report.OddsError, ShouldContainSubstring, "1 of 2")
				So(len(report.ValueBets), ShouldEqual, 1)
			})
		})

		Convey("When a failed fetch succeeds on the next run", func() {
			market.errs["evt-g3"] = errors.New("upstream 429")
			first, err := svc.Run(ctx)
			So(err, ShouldBeNil)
			So(first.OddsError, ShouldContainSubstring, "evt-g3")

			delete(market.errs, "evt-g3")
			second, err := svc.Run(ctx)

			Convey("Then the event is fetched again", func() {
				So(err, ShouldBeNil)
				So(second.OddsError, ShouldBeEmpty)
				So(market.fetched, ShouldHaveLength, 4)
			})
		})

		Convey("When the run is cancelled before fetches are queued", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			done := make(chan error, 1)
			go func() {
				_, err := svc.Run(cancelled)
				done <- err
			}()

			Convey("Then the pool stops without fetching", func() {
				select {
				case err := <-done:
					So(errors.Is(err, context.Canceled), ShouldBeTrue)
				case <-time.After(5 * time.Second):
					t.Error("run did not return after cancellation")
				}
				So(market.fetched, ShouldBeEmpty)
			})
		})

		Convey("When events cannot be listed", func() {
			market.eventsErr = errors.New("bad key")
			report, err := svc.Run(ctx)

			Convey("Then the season tables are still published", func() {
				So(err, ShouldBeNil)
				So(report.OddsError, ShouldContainSubstring, "bad key")
				So(len(report.FirstTouchdowns), ShouldEqual, 2)
				So(report.ValueBets, ShouldBeEmpty)
			})
		})

		Convey("When the week is pinned", func() {
			svc := service.New(&fakeLoader{season: fixtureSeason()},
				service.WithMarket(market),
				service.WithWeek(1),
				service.WithClock(func() time.Time { return today }),
			)
			report, err := svc.Run(ctx)
			So(err, ShouldBeNil)
			So(report.Week, ShouldEqual, 1)
			So(market.fetched, ShouldResemble, []string{"evt-g1"})
		})

		Convey("When linking by nearest kickoff", func() {
			svc := service.New(&fakeLoader{season: fixtureSeason()},
				service.WithMarket(market),
				service.WithLinkMode(service.LinkNearest, 0),
				service.WithClock(func() time.Time { return today }),
			)
			report, err := svc.Run(ctx)
			So(err, ShouldBeNil)
			So(len(report.Links.Links), ShouldEqual, 3)
			So(len(report.ValueBets), ShouldEqual, 1)
		})
	})
}

func TestTargetWeek(t *testing.T) {
	Convey("Given a schedule", t, func() {
		games := fixtureSeason().Games

		So(service.TargetWeek(games, today), ShouldEqual, 2)
		So(service.TargetWeek(games, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)), ShouldEqual, 1)
		So(service.TargetWeek(games, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)), ShouldEqual, 0)

		Convey("Then the Eastern calendar date decides", func() {
			// 03:00 UTC on the 16th is still the 15th in New York
			late := time.Date(2024, 9, 16, 3, 0, 0, 0, time.UTC)
			So(service.TargetWeek(games, late), ShouldEqual, 2)
		})
	})
}
