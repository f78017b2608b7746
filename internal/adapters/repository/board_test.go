package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/odds"
)

func bet(player string, ev float64) odds.ValueBet {
	return odds.ValueBet{Player: player, EV: ev, GameID: "g-" + player}
}

func TestBoardStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if _, err := store.Rank(ctx, "anyone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on empty board, got %v", err)
	}

	err := store.Replace(ctx, []odds.ValueBet{
		bet("Travis Kelce", 0.12),
		bet("Isiah Pacheco", 0.40),
		bet("Rashee Rice", 0.12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Isiah Pacheco", "Rashee Rice", "Travis Kelce"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Player != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], e.Player)
		}
		if e.Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
	}

	entry, err := store.Rank(ctx, "travis kelce")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 3 || entry.Player != "Travis Kelce" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestBoardStore_Replace(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()

	_ = store.Replace(ctx, []odds.ValueBet{bet("Old Player", 0.5)})
	_ = store.Replace(ctx, []odds.ValueBet{bet("New Player", 0.1)})

	if _, err := store.Rank(ctx, "Old Player"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected previous board to be discarded, got %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	// a player quoted in two games keeps the better bet
	dup := bet("Josh Allen", 0.2)
	better := bet("Josh Allen", 0.3)
	better.GameID = "g-other"
	_ = store.Replace(ctx, []odds.ValueBet{dup, better})
	entry, err := store.Rank(ctx, "Josh Allen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.GameID != "g-other" {
		t.Errorf("expected best bet to win, got game %s", entry.GameID)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.Replace(cancelled, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBoardStore_Limits(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore(WithMaxEntries(2))
	_ = store.Replace(ctx, []odds.ValueBet{bet("a", 0.3), bet("b", 0.2), bet("c", 0.1)})

	if count := store.Count(ctx); count != 2 {
		t.Errorf("expected capped count 2, got %d", count)
	}
	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	entries, err := store.TopN(ctx, 1)
	if err != nil || len(entries) != 1 || entries[0].Player != "a" {
		t.Errorf("unexpected top entry %+v, err %v", entries, err)
	}

	// callers must not be able to mutate the published board
	entries[0].Player = "mutated"
	again, _ := store.TopN(ctx, 1)
	if again[0].Player != "a" {
		t.Errorf("published board was mutated")
	}
}

func TestBoardStore_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				bets := []odds.ValueBet{bet(fmt.Sprintf("p%d-%d", w, i), 0.1), bet("shared", 0.05)}
				if err := store.Replace(ctx, bets); err != nil {
					t.Errorf("replace: %v", err)
					return
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				entries, err := store.TopN(ctx, 5)
				if err != nil {
					t.Errorf("topN: %v", err)
					return
				}
				if len(entries) != 0 && len(entries) != 2 {
					t.Errorf("observed partial board of %d entries", len(entries))
					return
				}
			}
		}()
	}
	wg.Wait()
}
