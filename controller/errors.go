package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrHandlerNotFound is returned when an action names a handler missing from the Catalog.
	ErrHandlerNotFound = errors.New("handler not found")
	// ErrNilHandler is returned when a handler factory produces no handler.
	ErrNilHandler = errors.New("handler factory returned nil")
)

// Error attaches the controller file and action to a loading failure.
type Error struct {
	File   string
	Action string
	Err    error
}

func (e *Error) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("controller %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("controller %s:%s: %v", e.File, e.Action, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MissingDependencyError reports a dependency an action requires but the loader was not given.
type MissingDependencyError struct {
	Dependency string
	File       string
	Action     string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("dependency %s is required to invoke %s:%s", e.Dependency, e.File, e.Action)
}
