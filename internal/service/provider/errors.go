package provider

import "errors"

var (
	ErrNotFound           = errors.New("provider not found")
	ErrInvalidWindow      = errors.New("open time must be before close time")
	ErrInvalidGranularity = errors.New("granularity must be a positive number of minutes")
)
