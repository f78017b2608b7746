// Package types contains read shapes shared by the service and the API.
package types

import (
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/defense"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/funnel"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/linker"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/odds"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/situational"
)

// Report is the published result of one pipeline run.
type Report struct {
	RunID       string    `json:"run_id"`
	Season      int       `json:"season"`
	Week        int       `json:"week,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	DurationMS  float64   `json:"duration_ms"`

	FirstTouchdowns []model.FirstTouchdown    `json:"first_touchdowns"`
	Probabilities   []model.PlayerProbability `json:"probabilities"`
	Defense         []defense.Ranking         `json:"defense"`
	Funnels         map[string]funnel.Label   `json:"funnels"`
	Situational     situational.Summary       `json:"situational"`

	Links     linker.Result   `json:"links"`
	ValueBets []odds.ValueBet `json:"value_bets"`
	OddsError string          `json:"odds_error,omitempty"`
}

// Entry is one ranked row of the value-bet board.
type Entry struct {
	Rank int `json:"rank"`
	odds.ValueBet
}
