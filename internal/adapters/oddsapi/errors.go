package oddsapi

import "errors"

// Sentinel error kinds for market data failures.
var (
	ErrMissingAPIKey = errors.New("odds api key not configured")
	ErrUpstream      = errors.New("odds api request failed")
	ErrDecode        = errors.New("odds api response malformed")
)
