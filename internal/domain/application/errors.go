package application

import "errors"

var (
	ErrNotFound               = errors.New("application not found")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrValidation             = errors.New("validation failed")
	ErrDuplicateID            = errors.New("duplicate application id")
	ErrConcurrentModification = errors.New("application modified concurrently")
	ErrScoreOutOfRange        = errors.New("credit score out of range")
)
