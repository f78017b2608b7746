package oddsapi

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

type eventDTO struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
}

type outcomeDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type marketDTO struct {
	Key      string       `json:"key"`
	Outcomes []outcomeDTO `json:"outcomes"`
}

type bookmakerDTO struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Markets []marketDTO `json:"markets"`
}

type eventOddsDTO struct {
	ID         string         `json:"id"`
	Bookmakers []bookmakerDTO `json:"bookmakers"`
}

// ParseEvents decodes an events listing. Unparseable commence times are
// left zero.
func ParseEvents(data []byte) ([]model.MarketEvent, error) {
	var dto []eventDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: events: %w", ErrDecode, err)
	}
	out := make([]model.MarketEvent, 0, len(dto))
	for _, e := range dto {
		ev := model.MarketEvent{ID: e.ID, HomeTeam: e.HomeTeam, AwayTeam: e.AwayTeam}
		if t, err := time.Parse(time.RFC3339, e.CommenceTime); err == nil {
			ev.CommenceTime = t.UTC()
		}
		out = append(out, ev)
	}
	return out, nil
}

// ParseOdds flattens an event odds document into quotes. The player is the
// outcome description when present, else the outcome name. Bookmakers are
// named by title, else key.
func ParseOdds(data []byte) ([]model.MarketQuote, error) {
	var dto eventOddsDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: odds: %w", ErrDecode, err)
	}
	var out []model.MarketQuote
	for _, b := range dto.Bookmakers {
		book := b.Title
		if book == "" {
			book = b.Key
		}
		for _, m := range b.Markets {
			for _, o := range m.Outcomes {
				player := strings.TrimSpace(o.Description)
				if player == "" {
					player = strings.TrimSpace(o.Name)
				}
				out = append(out, model.MarketQuote{
					Bookmaker: book,
					Market:    m.Key,
					Player:    player,
					Price:     int(math.Round(o.Price)),
				})
			}
		}
	}
	return out, nil
}
