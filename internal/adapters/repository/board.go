package repository

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/odds"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/types"
	"github.com/akursar1107/nfl-first-td-analyzer/pkg/metrics"
)

// Ordering: EV desc, then player asc. A player quoted in more than one game
// keeps only the best bet.

// snapshot is an immutable board published with one atomic store.
type snapshot struct {
	entries  []types.Entry
	byPlayer map[string]int
	byFolded map[string]int
}

var emptySnapshot = &snapshot{byPlayer: map[string]int{}, byFolded: map[string]int{}}

// BoardStore is an in-memory Store whose reads are lock-free.
type BoardStore struct {
	maxEntries int
	current    atomic.Pointer[snapshot]
}

// NewBoardStore constructs an empty board.
func NewBoardStore(opts ...Option) *BoardStore {
	s := &BoardStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(emptySnapshot)
	return s
}

// Replace implements Store.Replace.
func (s *BoardStore) Replace(ctx context.Context, bets []odds.ValueBet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	best := make(map[string]odds.ValueBet, len(bets))
	for _, b := range bets {
		if cur, ok := best[b.Player]; !ok || b.EV > cur.EV {
			best[b.Player] = b
		}
	}
	entries := make([]types.Entry, 0, len(best))
	for _, b := range best {
		entries = append(entries, types.Entry{ValueBet: b})
	}
	sortEntries(entries)
	if s.maxEntries > 0 && len(entries) > s.maxEntries {
		entries = entries[:s.maxEntries]
	}

	snap := &snapshot{
		entries:  entries,
		byPlayer: make(map[string]int, len(entries)),
		byFolded: make(map[string]int, len(entries)),
	}
	for i := range entries {
		entries[i].Rank = i + 1
		snap.byPlayer[entries[i].Player] = i
		f := strings.ToLower(entries[i].Player)
		if _, dup := snap.byFolded[f]; !dup {
			snap.byFolded[f] = i
		}
	}
	s.current.Store(snap)

	metrics.UpdateBoardSize(len(entries))
	metrics.RecordRepositoryReplace(float64(time.Since(start).Milliseconds()))
	return nil
}

// Rank implements Store.Rank. Player names match exactly first, then
// case-insensitively.
func (s *BoardStore) Rank(ctx context.Context, player string) (types.Entry, error) {
	snap := s.current.Load()
	i, ok := snap.byPlayer[player]
	if !ok {
		i, ok = snap.byFolded[strings.ToLower(strings.TrimSpace(player))]
	}
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Entry{}, ErrNotFound
	}
	return snap.entries[i], nil
}

// TopN implements Store.TopN.
func (s *BoardStore) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	snap := s.current.Load()
	if n > len(snap.entries) {
		n = len(snap.entries)
	}
	out := make([]types.Entry, n)
	copy(out, snap.entries[:n])
	return out, nil
}

// Count implements Store.Count.
func (s *BoardStore) Count(ctx context.Context) int {
	return len(s.current.Load().entries)
}

func sortEntries(entries []types.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EV != entries[j].EV {
			return entries[i].EV > entries[j].EV
		}
		return entries[i].Player < entries[j].Player
	})
}
