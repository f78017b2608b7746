package repository

import (
	"errors"
	"fmt"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/types"
)

// Sentinel kinds for board errors.
var (
	ErrNotFound     = fmt.Errorf("player not on board: %w", types.ErrNotFound)
	ErrInvalidLimit = errors.New("invalid board limit")
)
