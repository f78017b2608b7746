package odds

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/defense"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/funnel"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/situational"
)

// Settings are the staking and matching parameters of an Evaluator.
type Settings struct {
	Market        string
	Bankroll      decimal.Decimal
	KellyFraction float64
	MinNameLength int
}

// DefaultSettings stakes a quarter Kelly on a 1000 unit bankroll.
func DefaultSettings() Settings {
	return Settings{
		Market:        "player_1st_td",
		Bankroll:      decimal.NewFromInt(1000),
		KellyFraction: 0.25,
		MinNameLength: DefaultMinNameLength,
	}
}

// Inputs are the season-level tables value bets are annotated from.
type Inputs struct {
	Probabilities []model.PlayerProbability
	Defense       defense.Table
	Funnels       map[string]funnel.Label
	Roster        *model.Roster
	Situational   situational.Summary
}

// ValueBet is a positive expected-value first-touchdown wager.
type ValueBet struct {
	GameID      string          `json:"game_id"`
	Home        string          `json:"home"`
	Away        string          `json:"away"`
	Player      string          `json:"player"`
	Team        string          `json:"team"`
	Opponent    string          `json:"opponent,omitempty"`
	Position    string          `json:"position,omitempty"`
	Price       int             `json:"price"`
	Bookmaker   string          `json:"bookmaker"`
	Decimal     float64         `json:"decimal_odds"`
	Probability float64         `json:"prob"`
	FirstTDs    int             `json:"first_tds"`
	TeamGames   int             `json:"team_games"`
	EV          float64         `json:"ev"`
	FairOdds    int             `json:"fair_odds"`
	Kelly       decimal.Decimal `json:"kelly"`

	OpponentRank int          `json:"opponent_rank,omitempty"`
	Matchup      string       `json:"matchup"`
	Funnel       funnel.Label `json:"funnel,omitempty"`
	FunnelMatch  bool         `json:"funnel_match"`

	RedZone      *situational.Usage `json:"rz_stats,omitempty"`
	OpeningDrive *situational.Usage `json:"od_stats,omitempty"`
	TeamSplit    *situational.Split `json:"team_rz_split,omitempty"`
}

// Evaluator prices one game's quotes against season probabilities.
type Evaluator struct {
	settings Settings
	in       Inputs
	index    *PlayerIndex
}

// NewEvaluator builds an Evaluator over the season tables.
func NewEvaluator(in Inputs, s Settings) *Evaluator {
	return &Evaluator{
		settings: s,
		in:       in,
		index:    NewPlayerIndex(in.Probabilities, s.MinNameLength),
	}
}

// Evaluate returns the positive expected-value bets for game, best first.
// Quotes for other markets, unknown players and zero prices are skipped, as
// are break-even prices.
func (e *Evaluator) Evaluate(game model.Game, quotes []model.MarketQuote) []ValueBet {
	var out []ValueBet
	for _, best := range BestPrices(quotes, e.settings.Market) {
		prob, ok := e.index.Lookup(best.Player)
		if !ok {
			continue
		}
		dec, err := AmericanToDecimal(best.Price)
		if err != nil {
			continue
		}
		ev := ExpectedValue(prob.Probability, dec)
		if ev <= snapEpsilon {
			continue
		}
		bet := ValueBet{
			GameID:      game.ID,
			Home:        game.HomeTeam,
			Away:        game.AwayTeam,
			Player:      best.Player,
			Team:        prob.Team,
			Price:       best.Price,
			Bookmaker:   best.Bookmaker,
			Decimal:     dec,
			Probability: prob.Probability,
			FirstTDs:    prob.FirstTDs,
			TeamGames:   prob.TeamGames,
			EV:          ev,
			FairOdds:    FairOdds(prob.Probability),
			Kelly:       KellyStake(prob.Probability, dec, e.settings.Bankroll, e.settings.KellyFraction),
			Matchup:     "-",
		}
		e.annotate(&bet, game, prob)
		out = append(out, bet)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EV > out[j].EV })
	return out
}

func (e *Evaluator) annotate(bet *ValueBet, game model.Game, prob model.PlayerProbability) {
	pos, _ := e.in.Roster.Position(prob.PlayerID, bet.Player)
	if pos == "" {
		pos, _ = e.in.Roster.Position("", prob.Player)
	}
	bet.Position = pos

	if opp, ok := game.Opponent(prob.Team); ok {
		bet.Opponent = opp
		if def, ok := e.in.Defense.Team(opp); ok {
			group := defense.GroupOf(pos)
			bet.OpponentRank = def.Rank(group)
			rank := "-"
			if bet.OpponentRank > 0 {
				rank = fmt.Sprint(bet.OpponentRank)
			}
			bet.Matchup = fmt.Sprintf("vs #%s %s", rank, group)
		}
		if label := e.in.Funnels[opp]; label != funnel.None {
			bet.Funnel = label
			bet.FunnelMatch = funnel.Matches(label, pos)
			if bet.FunnelMatch {
				bet.Matchup += fmt.Sprintf(" (%s)", label)
			}
		}
	}

	s := e.in.Situational
	if u, ok := lookupUsage(s.RedZone, bet.Player, prob.Player); ok {
		bet.RedZone = &u
	}
	if u, ok := lookupUsage(s.OpeningDrive, bet.Player, prob.Player); ok {
		bet.OpeningDrive = &u
	}
	if split, ok := s.TeamSplits[prob.Team]; ok {
		bet.TeamSplit = &split
	}
}

func lookupUsage(m map[string]situational.Usage, names ...string) (situational.Usage, bool) {
	for _, n := range names {
		if u, ok := m[n]; ok {
			return u, true
		}
	}
	return situational.Usage{}, false
}
