package scheduling

import "errors"

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrInvalidRange     = errors.New("to must not be before from")
	ErrRangeTooWide     = errors.New("date range exceeds the maximum query span")
)
