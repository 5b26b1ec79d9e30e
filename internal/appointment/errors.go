package appointment

import "errors"

var (
	// Booking validation rejections; recoverable by re-querying slots.
	ErrPastDateTime   = errors.New("appointment start must be in the future")
	ErrProviderClosed = errors.New("provider is not open at the requested time")
	ErrSlotTaken      = errors.New("requested slot conflicts with an existing appointment")

	// Lifecycle rejections; indicate stale client state, not retryable.
	ErrInvalidTransition = errors.New("appointment is not in the required state for this transition")
	ErrNotAuthorized     = errors.New("actor role is not permitted to perform this transition")
)
