package appointment

import "errors"

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrNotParticipant   = errors.New("appointment belongs to someone else")
	ErrLockTimeout      = errors.New("booking is busy, try again")
	ErrConcurrentUpdate = errors.New("appointment changed since it was read")
	ErrNotCompleted     = errors.New("follow-up requires a completed appointment")
)
