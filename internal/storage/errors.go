package storage

import "errors"

var (
	// ErrNotFound means no record exists for the key. Expected outcome,
	// not a failure.
	ErrNotFound = errors.New("record not found")

	// ErrCorrupt means the durable document exists but cannot be parsed.
	// Callers must never treat this as ErrNotFound.
	ErrCorrupt = errors.New("record corrupt")
)
