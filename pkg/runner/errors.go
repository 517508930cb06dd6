package runner

import "errors"

var (
	// ErrQueueFull is returned by Enqueue when the event queue is at capacity.
	ErrQueueFull = errors.New("event queue full")

	// ErrAlreadyRunning is returned when Run is called on a running runner.
	ErrAlreadyRunning = errors.New("runner already running")
)
