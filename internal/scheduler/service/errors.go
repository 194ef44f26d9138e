package service

import "errors"

var (
	// ErrInvalidInput wraps every request validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRunFinished is returned when cancelling a run that is already terminal.
	ErrRunFinished = errors.New("run already finished")
	// ErrUnhealthy is returned by Health when a backing store is unreachable.
	ErrUnhealthy = errors.New("service unhealthy")
)
