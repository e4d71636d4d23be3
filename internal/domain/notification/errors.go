package notification

import "errors"

var (
	ErrQueueFull         = errors.New("notification queue is full")
	ErrDispatcherStopped = errors.New("notification dispatcher is stopped")
	ErrSinkUnavailable   = errors.New("notification sink unavailable")
)
