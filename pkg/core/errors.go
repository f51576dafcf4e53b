package core

import "errors"

// Common errors.
var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrReadOnly       = errors.New("storage is in read-only mode")
	ErrUnknownAdapter = errors.New("unknown storage adapter")
	ErrNotWatchable   = errors.New("storage does not support watching")
)
