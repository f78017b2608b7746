package model

import "time"

// MarketEvent is an externally quoted contest.
type MarketEvent struct {
	ID           string    `json:"id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
}

// MarketQuote is one bookmaker's American price for a player to score first.
type MarketQuote struct {
	Bookmaker string `json:"bookmaker"`
	Market    string `json:"market"`
	Player    string `json:"player"`
	Price     int    `json:"price"`
}

// FetchJob asks for the quotes of one market event on behalf of a game.
type FetchJob struct {
	GameID  string
	EventID string
}

// FetchResult carries the outcome of a FetchJob. Err is set on failure and
// Quotes is then empty.
type FetchResult struct {
	Job    FetchJob
	Quotes []MarketQuote
	Err    error
}
