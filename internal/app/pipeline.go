package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/mq/queue"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/adapters/mq/worker"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/defense"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/firstscore"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/funnel"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/linker"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/odds"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/probability"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/situational"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/types"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/logger"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// Analysis holds the season tables derived from one snapshot.
type Analysis struct {
	FirstTouchdowns firstscore.Result
	Probabilities   []model.PlayerProbability
	Defense         defense.Table
	Funnels         map[string]funnel.Label
	Situational     situational.Summary
}

// Analyze derives every season table from s.
func Analyze(s *model.Season, lastN int) Analysis {
	roster := s.RosterIndex()
	tds := firstscore.New(roster).Extract(s.Plays)
	table := defense.Rank(s.Games, tds.Touchdowns, roster)
	return Analysis{
		FirstTouchdowns: tds,
		Probabilities:   probability.Compute(s.Games, tds.Touchdowns, lastN),
		Defense:         table,
		Funnels:         funnel.ClassifyAll(table),
		Situational:     situational.Summarize(s.Games, s.Plays, roster, tds.Touchdowns),
	}
}

// Run executes one pipeline pass and publishes its report. Market failures
// are recorded on the report and do not fail the run.
func (s *Service) Run(ctx context.Context) (*types.Report, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunPending
	}
	defer s.runMu.Unlock()

	log := s.log()
	start := time.Now()
	runID := uuid.NewString()

	if s.loader == nil {
		return nil, ErrNoSeason
	}
	season, err := s.loader.Load(ctx, s.season)
	if err != nil {
		s.fail(start)
		log.Error(ctx, "season load failed", logger.String("run_id", runID), logger.Error(err))
		return nil, fmt.Errorf("load season %d: %w", s.season, err)
	}

	a := Analyze(season, s.lastN)
	report := &types.Report{
		RunID:           runID,
		Season:          season.Year,
		GeneratedAt:     s.now().UTC(),
		FirstTouchdowns: a.FirstTouchdowns.Touchdowns,
		Probabilities:   a.Probabilities,
		Defense:         a.Defense.Teams(),
		Funnels:         a.Funnels,
		Situational:     a.Situational,
	}
	metrics.UpdateFirstTouchdowns(a.FirstTouchdowns.Len())
	metrics.UpdatePlayersScored(len(a.Probabilities))

	status := "ok"
	if s.market != nil {
		scan, err := s.scan(ctx, season, a)
		report.Week = scan.week
		report.Links = scan.links
		report.ValueBets = scan.bets
		if err != nil {
			status = "partial"
			report.OddsError = err.Error()
			metrics.RecordErrorByComponent("service", "odds")
			log.Warn(ctx, "odds phase degraded", logger.String("run_id", runID), logger.Error(err))
		}
	}

	if err := s.board.Replace(ctx, report.ValueBets); err != nil {
		s.fail(start)
		return nil, fmt.Errorf("publish board: %w", err)
	}
	metrics.UpdateValueBets(len(report.ValueBets))

	report.DurationMS = float64(time.Since(start).Milliseconds())
	games := season.Games
	s.games.Store(&games)
	s.latest.Store(report)
	s.runs.Add(1)
	metrics.RecordRun(status, report.DurationMS)

	log.Info(ctx, "pipeline run complete",
		logger.String("run_id", runID),
		logger.Int("season", report.Season),
		logger.Int("week", report.Week),
		logger.Int("first_tds", len(report.FirstTouchdowns)),
		logger.Int("players", len(report.Probabilities)),
		logger.Int("value_bets", len(report.ValueBets)),
		logger.Float64("duration_ms", report.DurationMS),
	)
	return report, nil
}

func (s *Service) fail(start time.Time) {
	s.failed.Add(1)
	metrics.RecordRun("error", float64(time.Since(start).Milliseconds()))
}

type scanResult struct {
	week  int
	links linker.Result
	bets  []odds.ValueBet
}

// scan links market events to the target week and prices their quotes.
func (s *Service) scan(ctx context.Context, season *model.Season, a Analysis) (scanResult, error) {
	var out scanResult

	events, err := s.market.Events(ctx)
	if err != nil {
		return out, fmt.Errorf("list events: %w", err)
	}

	l := linker.New(linker.WithDirectory(s.directory), linker.WithTolerance(s.linkTolerance))
	if s.linkMode == LinkNearest {
		out.links = l.LinkNearest(season.Games, events)
	} else {
		out.links = l.Link(season.Games, events)
	}
	metrics.UpdateLinkedGames(len(out.links.Links), len(out.links.Unlinked))

	out.week = s.week
	if out.week == 0 {
		out.week = TargetWeek(season.Games, s.now())
	}
	if out.week == 0 {
		return out, nil
	}

	byID := model.GamesByID(season.Games)
	s.deduper.Reset(ctx)
	var jobs []model.FetchJob
	for _, g := range season.Games {
		if g.Week != out.week {
			continue
		}
		eventID, ok := out.links.EventFor(g.ID)
		if !ok || s.deduper.SeenAndRecord(ctx, eventID) {
			continue
		}
		jobs = append(jobs, model.FetchJob{GameID: g.ID, EventID: eventID})
	}
	if len(jobs) == 0 {
		return out, nil
	}

	results, err := s.fetchAll(ctx, jobs)
	if err != nil {
		return out, err
	}

	ev := odds.NewEvaluator(odds.Inputs{
		Probabilities: a.Probabilities,
		Defense:       a.Defense,
		Funnels:       a.Funnels,
		Roster:        season.RosterIndex(),
		Situational:   a.Situational,
	}, s.settings)

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", res.Job.EventID, res.Err))
			continue
		}
		out.bets = append(out.bets, ev.Evaluate(byID[res.Job.GameID], res.Quotes)...)
	}
	sort.SliceStable(out.bets, func(i, j int) bool { return out.bets[i].EV > out.bets[j].EV })

	if len(errs) > 0 {
		return out, fmt.Errorf("%d of %d odds fetches failed: %w", len(errs), len(jobs), errors.Join(errs...))
	}
	return out, nil
}

// fetchAll runs jobs through the worker pool and returns results in job
// order.
func (s *Service) fetchAll(ctx context.Context, jobs []model.FetchJob) ([]model.FetchResult, error) {
	capacity := s.queueSize
	if len(jobs) > capacity {
		capacity = len(jobs)
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))

	var mu sync.Mutex
	byEvent := make(map[string]model.FetchResult, len(jobs))
	collect := worker.CollectorFunc(func(_ context.Context, res model.FetchResult) {
		mu.Lock()
		byEvent[res.Job.EventID] = res
		mu.Unlock()
	})

	workers := s.workerCount
	if workers > len(jobs) {
		workers = len(jobs)
	}
	pool := worker.NewPool(workers, q, s.market, collect)
	pool.Start(ctx)
	for _, job := range jobs {
		if err := q.Enqueue(ctx, job); err != nil {
			if serr := pool.Shutdown(context.WithoutCancel(ctx)); serr != nil {
				s.log().Warn(ctx, "fetch pool shutdown", logger.Error(serr))
			}
			return nil, fmt.Errorf("enqueue %s: %w", job.EventID, err)
		}
	}
	_ = q.Close()
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]model.FetchResult, 0, len(jobs))
	for _, job := range jobs {
		res, ok := byEvent[job.EventID]
		if !ok {
			res = model.FetchResult{Job: job, Err: fmt.Errorf("no result for event %s", job.EventID)}
		}
		out = append(out, res)
	}
	return out, nil
}

// TargetWeek returns the smallest week with a game on or after now's
// Eastern calendar date, or zero when the season is over.
func TargetWeek(games []model.Game, now time.Time) int {
	today := now.In(model.Eastern).Format(model.DateLayout)
	week := 0
	for _, g := range games {
		if g.Week <= 0 || g.Gameday < today {
			continue
		}
		if week == 0 || g.Week < week {
			week = g.Week
		}
	}
	return week
}
