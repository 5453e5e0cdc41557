// Package apperr holds sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrStale    = errors.New("superseded by a newer reload")
	ErrNotReady = errors.New("content not loaded")
)
