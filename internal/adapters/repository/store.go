// Package repository holds the ranked value-bet board of the latest run.
package repository

import (
	"context"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/odds"
	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/types"
)

// Store provides read/write access to the value-bet board.
type Store interface {
	// Replace swaps the whole board for bets. Readers never observe a mix of
	// two runs.
	Replace(ctx context.Context, bets []odds.ValueBet) error

	// Rank returns the entry for a player.
	// Returns ErrNotFound if the player is not on the board.
	Rank(ctx context.Context, player string) (types.Entry, error)

	// TopN returns the top-N entries ordered by EV desc.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Count returns the number of players on the board.
	Count(ctx context.Context) int
}
