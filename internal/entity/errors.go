package entity

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTierDowngrade is returned when a write would lower a problem's analysis tier.
	ErrTierDowngrade = errors.New("analysis tier cannot be lowered")
	// ErrFilterConflict is returned when a discussion already carries a different filter verdict.
	ErrFilterConflict = errors.New("discussion already classified with a different verdict")
	// ErrInvalidCardStatus is returned for unknown statuses or a move back to new.
	ErrInvalidCardStatus = errors.New("invalid card status")
)
