package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrQueueFull    = errors.New("narration queue is full")
	ErrReservedFull = errors.New("narration queue reserved headroom reached")
	ErrNoGame       = errors.New("no game in progress")
)
