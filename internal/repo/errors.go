package repo

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// ErrStaleUpdate is returned by compare-and-set updates when the
	// row's status no longer matches the status the caller read.
	ErrStaleUpdate = errors.New("record changed since read")
)
