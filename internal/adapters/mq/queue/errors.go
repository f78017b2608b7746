package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrQueueClosed = errors.New("fetch queue closed")
	ErrQueueFull   = errors.New("fetch queue full")
)
