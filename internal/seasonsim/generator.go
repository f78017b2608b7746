package seasonsim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
)

type gameRow struct {
	game  model.Game
	plays []model.Play
	first string
}

// Roster builds the league roster for teams. Names and ids are unique
// across the league and stable for a given team order.
func Roster(teams []string) []model.RosterEntry {
	out := make([]model.RosterEntry, 0, len(teams)*len(depth))
	for t, team := range teams {
		for i, slot := range depth {
			g := t*len(depth) + i
			out = append(out, model.RosterEntry{
				PlayerID: fmt.Sprintf("00-00%05d", g+1),
				FullName: firstNames[g%len(firstNames)] + " " + lastNames[(g/len(firstNames))%len(lastNames)],
				Position: slot.position,
				Team:     team,
			})
		}
	}
	return out
}

// Schedule pairs teams by the circle method so every week is a full slate.
// Thursday night opens each week, Sunday carries the rest.
func Schedule(season, weeks int, teams []string) []model.Game {
	ring := append([]string(nil), teams...)
	if len(ring)%2 == 1 {
		ring = append(ring, "")
	}
	n := len(ring)
	sunday := firstSunday(season)

	var games []model.Game
	for w := 1; w <= weeks; w++ {
		slot := 0
		for i := 0; i < n/2; i++ {
			home, away := ring[i], ring[n-1-i]
			if home == "" || away == "" {
				continue
			}
			if w%2 == 0 {
				home, away = away, home
			}
			day, clock := kickoff(sunday.AddDate(0, 0, 7*(w-1)), slot)
			games = append(games, model.Game{
				ID:       fmt.Sprintf("%d_%02d_%s_%s", season, w, away, home),
				Season:   season,
				Week:     w,
				GameType: "REG",
				HomeTeam: home,
				AwayTeam: away,
				Gameday:  day,
				Gametime: clock,
			})
			slot++
		}
		// rotate everything but the first seat
		ring = append([]string{ring[0], ring[n-1]}, ring[1:n-1]...)
	}
	return games
}

// firstSunday returns the first Sunday after Labor Day of season.
func firstSunday(season int) time.Time {
	d := time.Date(season, time.September, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 6)
}

func kickoff(sunday time.Time, slot int) (string, string) {
	switch {
	case slot == 0:
		return sunday.AddDate(0, 0, -3).Format(model.DateLayout), "20:15"
	case slot%5 == 4:
		return sunday.Format(model.DateLayout), "16:25"
	case slot == 15:
		return sunday.Format(model.DateLayout), "20:20"
	}
	return sunday.Format(model.DateLayout), fmt.Sprintf("%02d:00", kickoffHourSun)
}

// generateGames simulates play-by-play for the first played weeks of games
// across cfg.Workers goroutines. Output order follows games.
func generateGames(ctx context.Context, cfg *Config, games []model.Game, roster []model.RosterEntry, stats *Stats) ([]gameRow, error) {
	logger.Get().Info(ctx, "simulating games", logger.Int("games", len(games)), logger.Int("workers", cfg.Workers))

	byTeam := make(map[string][]model.RosterEntry)
	for _, e := range roster {
		byTeam[e.Team] = append(byTeam[e.Team], e)
	}

	rows := make([]gameRow, len(games))
	type result struct {
		index int
		row   gameRow
	}
	resultChan := make(chan result, len(games))

	workers := minInt(max(cfg.Workers, 1), max(len(games), 1))
	perWorker := len(games) / workers
	for worker := 0; worker < workers; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workers-1 {
			end = len(games)
		}
		go func(start, end int) {
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return
				}
				row := gameRow{game: games[i]}
				if games[i].Week <= cfg.Played {
					rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
					row.plays, row.first = simulate(rng, games[i], byTeam)
				}
				resultChan <- result{index: i, row: row}
			}
		}(start, end)
	}

	for i := 0; i < len(games); i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during simulation: %w", ctx.Err())
		case r := <-resultChan:
			rows[r.index] = r.row
		}
	}

	for _, r := range rows {
		stats.Games++
		if len(r.plays) == 0 {
			continue
		}
		stats.PlayedGames++
		stats.Plays += len(r.plays)
		for _, p := range r.plays {
			if p.Touchdown {
				stats.Touchdowns++
			}
		}
		if r.first != "" {
			stats.FirstTouchdowns++
		}
	}
	return rows, nil
}

// simulate plays one game as alternating drives. It returns the plays and
// the full name of the first touchdown scorer, empty for a scoreless game.
func simulate(rng *rand.Rand, g model.Game, byTeam map[string][]model.RosterEntry) ([]model.Play, string) {
	var (
		plays   []model.Play
		first   string
		elapsed int
		playID  = int64(firstPlayID)
	)
	offense, defense := g.AwayTeam, g.HomeTeam
	if rng.IntN(2) == 0 {
		offense, defense = defense, offense
	}
	budget := gameSeconds / drivesPerGame

	for drive := 1; drive <= drivesPerGame; drive++ {
		n := minDrivePlays + rng.IntN(maxDrivePlays-minDrivePlays+1)
		scores := rng.Float64() < touchdownRate
		yard := startingYards - rng.IntN(20)
		step := budget / n

		for k := 0; k < n && elapsed < gameSeconds; k++ {
			last := k == n-1
			p := model.Play{
				GameID:         g.ID,
				PlayID:         playID,
				HasPlayID:      true,
				Quarter:        elapsed/900 + 1,
				Clock:          clock(900 - elapsed%900),
				PosTeam:        offense,
				Yardline100:    yard,
				HasYardline100: true,
				Drive:          drive,
				HasDrive:       true,
			}
			carrier := pick(rng, byTeam[offense])
			passer := byTeam[offense][0]
			if carrier.Position == "RB" || carrier.Position == "QB" {
				p.PlayType = "run"
				p.RusherPlayerID = carrier.PlayerID
			} else {
				p.PlayType = "pass"
				p.ReceiverPlayerID = carrier.PlayerID
			}

			gain := yard / (n - k)
			if scores && last {
				gain = yard
				p.Touchdown = true
				p.TDTeam = offense
				p.TDPlayerID = carrier.PlayerID
				p.TDPlayerName = short(carrier.FullName)
				if first == "" {
					first = carrier.FullName
				}
			} else if gain >= yard {
				gain = yard - 1
			}
			p.Description = describe(p, carrier, passer, gain)

			plays = append(plays, p)
			playID += playIDStride
			elapsed += step
			yard -= gain
			if yard < 1 {
				yard = 1
			}
		}
		offense, defense = defense, offense
	}
	return plays, first
}

func pick(rng *rand.Rand, players []model.RosterEntry) model.RosterEntry {
	r := rng.Float64()
	for i, slot := range depth {
		if r < slot.weight {
			return players[i]
		}
		r -= slot.weight
	}
	return players[1]
}

func clock(remaining int) string {
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}

// short abbreviates a full name the way play-by-play feeds do: "J.Allen".
func short(full string) string {
	first, last, ok := strings.Cut(full, " ")
	if !ok || first == "" {
		return full
	}
	return first[:1] + "." + last
}

func describe(p model.Play, carrier, passer model.RosterEntry, gain int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%s) ", p.Clock)
	if p.PlayType == "pass" {
		fmt.Fprintf(&b, "%s pass to %s for %d yards", short(passer.FullName), short(carrier.FullName), gain)
	} else {
		fmt.Fprintf(&b, "%s up the middle for %d yards", short(carrier.FullName), gain)
	}
	if p.Touchdown {
		b.WriteString(", TOUCHDOWN.")
	}
	return b.String()
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
