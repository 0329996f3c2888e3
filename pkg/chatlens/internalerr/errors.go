package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrPartitionMismatch = errors.New("topic partition row count mismatch")
)
