package nflverse

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrMissingFile   = errors.New("data file missing")
	ErrDownload      = errors.New("data download failed")
)
