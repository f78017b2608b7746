package types

import "errors"

// Error kinds shared by the service and its transports.
var (
	ErrNotFound   = errors.New("not found")
	ErrNoReport   = errors.New("no report available yet")
	ErrRunPending = errors.New("pipeline run already in progress")
)
