package service

import (
	"errors"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/types"
)

// Sentinel error kinds for the service.
var (
	ErrNoReport   = types.ErrNoReport
	ErrRunPending = types.ErrRunPending
	ErrNoSeason   = errors.New("no season loader configured")
)
