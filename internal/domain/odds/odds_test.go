package odds_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/odds"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConversions(t *testing.T) {
	Convey("Given American prices", t, func() {
		dec, err := odds.AmericanToDecimal(400)
		So(err, ShouldBeNil)
		So(dec, ShouldAlmostEqual, 5.0)

		dec, err = odds.AmericanToDecimal(-150)
		So(err, ShouldBeNil)
		So(dec, ShouldAlmostEqual, 1.0+100.0/150.0)

		_, err = odds.AmericanToDecimal(0)
		So(errors.Is(err, odds.ErrInvalidPrice), ShouldBeTrue)
	})

	Convey("Given probabilities", t, func() {
		So(odds.FairOdds(0.20), ShouldEqual, 400)
		So(odds.FairOdds(0.60), ShouldEqual, -150)
		So(odds.FairOdds(0.5), ShouldEqual, 100)
		So(odds.FairOdds(0.3), ShouldEqual, 233)
		So(odds.FairOdds(0), ShouldEqual, 0)
		So(odds.FairOdds(-0.1), ShouldEqual, 0)
		So(odds.FairOdds(1), ShouldEqual, odds.CertainOdds)
		So(odds.FairOdds(0.9999), ShouldBeLessThan, -100)

		Convey("Then magnitudes grow toward certainty", func() {
			prev := odds.FairOdds(0.51)
			for _, p := range []float64{0.6, 0.7, 0.8, 0.9, 0.99} {
				cur := odds.FairOdds(p)
				So(cur, ShouldBeLessThan, prev)
				prev = cur
			}
		})
	})

	Convey("Given a fairly priced bet", t, func() {
		for _, price := range []int{-300, -110, 100, 250, 1800} {
			dec, err := odds.AmericanToDecimal(price)
			So(err, ShouldBeNil)
			So(odds.ExpectedValue(1/dec, dec), ShouldAlmostEqual, 0.0, 1e-12)
		}
	})

	Convey("Given the documented EV examples", t, func() {
		So(odds.ExpectedValue(0.25, 5.0), ShouldAlmostEqual, 0.25)
		So(odds.ExpectedValue(0.10, 5.0), ShouldAlmostEqual, -0.5)

		cases := []struct {
			p     float64
			price int
			want  float64
		}{
			{0.25, 150, -0.375},
			{0.40, 150, 0.0},
			{0.50, 200, 0.5},
		}
		for _, c := range cases {
			dec, err := odds.AmericanToDecimal(c.price)
			So(err, ShouldBeNil)
			So(odds.ExpectedValue(c.p, dec), ShouldAlmostEqual, c.want, 1e-9)
		}
	})
}

func TestKellyStake(t *testing.T) {
	bankroll := decimal.NewFromInt(1000)

	Convey("Given an edge", t, func() {
		stake := odds.KellyStake(0.5, 3.0, bankroll, 0.25)
		So(stake.String(), ShouldEqual, "62.5")
		So(stake.StringFixed(2), ShouldEqual, "62.50")
	})

	Convey("Given no edge", t, func() {
		So(odds.KellyStake(0.2, 5.0, bankroll, 0.25).IsZero(), ShouldBeTrue)
		So(odds.KellyStake(0.1, 5.0, bankroll, 0.25).IsZero(), ShouldBeTrue)
		So(odds.KellyStake(0, 5.0, bankroll, 0.25).IsZero(), ShouldBeTrue)
		So(odds.KellyStake(0.9, 1.0, bankroll, 0.25).IsZero(), ShouldBeTrue)
	})

	Convey("Given a grid of inputs", t, func() {
		for _, p := range []float64{0.01, 0.1, 0.3, 0.6, 0.95} {
			for _, dec := range []float64{1.01, 1.5, 2, 6, 31} {
				So(odds.KellyStake(p, dec, bankroll, 0.25).IsNegative(), ShouldBeFalse)
			}
		}
	})
}

func TestBestPrices(t *testing.T) {
	Convey("Given quotes from several books", t, func() {
		quotes := []model.MarketQuote{
			{Bookmaker: "DraftKings", Market: "player_1st_td", Player: "Travis Kelce", Price: 650},
			{Bookmaker: "FanDuel", Market: "player_1st_td", Player: "Travis Kelce", Price: 700},
			{Bookmaker: "BetMGM", Market: "player_1st_td", Player: "Travis Kelce", Price: 700},
			{Bookmaker: "FanDuel", Market: "player_anytime_td", Player: "Travis Kelce", Price: 900},
			{Bookmaker: "DraftKings", Market: "player_1st_td", Player: "Isiah Pacheco", Price: 600},
		}

		best := odds.BestPrices(quotes, "player_1st_td")
		So(len(best), ShouldEqual, 2)
		So(best[0], ShouldResemble, odds.BestPrice{Player: "Travis Kelce", Price: 700, Bookmaker: "FanDuel"})
		So(best[1].Player, ShouldEqual, "Isiah Pacheco")

		So(len(odds.BestPrices(quotes, "")), ShouldEqual, 2)
		So(odds.BestPrices(nil, "player_1st_td"), ShouldBeEmpty)
	})
}

func TestPlayerIndex(t *testing.T) {
	Convey("Given indexed probabilities", t, func() {
		ix := odds.NewPlayerIndex([]model.PlayerProbability{
			{Player: "Travis Kelce", Probability: 0.1},
			{Player: "Kelce", Probability: 0.2},
			{Player: "Josh Allen", Probability: 0.3},
			{Player: "Josh Allen Jr", Probability: 0.4},
			{Player: "Amon-Ra St. Brown", Probability: 0.5},
			{Player: "Bo", Probability: 0.6},
		}, 0)
		So(ix.Len(), ShouldEqual, 6)

		Convey("Then exact names win", func() {
			p, ok := ix.Lookup("Kelce")
			So(ok, ShouldBeTrue)
			So(p.Probability, ShouldEqual, 0.2)
		})

		Convey("Then case is ignored", func() {
			p, ok := ix.Lookup("travis KELCE")
			So(ok, ShouldBeTrue)
			So(p.Player, ShouldEqual, "Travis Kelce")
		})

		Convey("Then the longest containing name wins", func() {
			p, ok := ix.Lookup("Josh Allen Jr.")
			So(ok, ShouldBeTrue)
			So(p.Player, ShouldEqual, "Josh Allen Jr")

			p, _ = ix.Lookup("Amon-Ra St. Brown Jr.")
			So(p.Player, ShouldEqual, "Amon-Ra St. Brown")
		})

		Convey("Then short names never match by substring", func() {
			_, ok := ix.Lookup("Bob")
			So(ok, ShouldBeFalse)
			_, ok = ix.Lookup("Bo Nix")
			So(ok, ShouldBeFalse)
		})

		Convey("Then unknown players miss", func() {
			_, ok := ix.Lookup("Patrick Mahomes")
			So(ok, ShouldBeFalse)
		})
	})
}
