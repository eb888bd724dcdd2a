package schema

import "fmt"

// Error describes a malformed property descriptor. Path is the dotted property path,
// with "[]" marking array items (e.g. "pets[].tags").
type Error struct {
	Path    string
	Message string
}

func newError(path, message string) *Error {
	return &Error{Path: path, Message: message}
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "schema: " + e.Message
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Message)
}
