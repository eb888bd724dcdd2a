package openapi

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by AddEndpoint when Initialize has not been called.
var ErrNotInitialized = errors.New("openapi: document not initialized")

// ErrInvalidEndpoint is returned when an endpoint lacks a path or method.
var ErrInvalidEndpoint = errors.New("openapi: invalid endpoint")

// PersistError reports a failed document write. The in-memory document keeps the
// change that triggered the write.
type PersistError struct {
	Sink string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("openapi: failed to persist document to %s: %v", e.Sink, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
