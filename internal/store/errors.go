package store

import "errors"

// Sentinel store errors, matched by callers with errors.Is().
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)
