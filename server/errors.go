package server

import (
	"maps"
	"net/http"
)

// Error codes published in the error envelope.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeConflict           = "CONFLICT"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:            CodeBadRequest,
	http.StatusUnauthorized:          CodeUnauthorized,
	http.StatusForbidden:             CodeForbidden,
	http.StatusNotFound:              CodeNotFound,
	http.StatusMethodNotAllowed:      CodeMethodNotAllowed,
	http.StatusConflict:              CodeConflict,
	http.StatusRequestEntityTooLarge: CodePayloadTooLarge,
	http.StatusTooManyRequests:       CodeTooManyRequests,
	http.StatusServiceUnavailable:    CodeServiceUnavailable,
}

// CodeForStatus returns the envelope code for an HTTP status; unknown statuses map to CodeInternal.
func CodeForStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return CodeInternal
}

// APIError is an error a handler returns to choose the response status and envelope.
type APIError struct {
	code    string
	message string
	status  int
	details map[string]any
	cause   error
}

var _ IAPIError = (*APIError)(nil)

// NewAPIError creates an error answered with status. An empty code is derived from status.
func NewAPIError(status int, code, message string) *APIError {
	if code == "" {
		code = CodeForStatus(status)
	}
	return &APIError{code: code, message: message, status: status}
}

// NewNotFoundError reports that resource does not exist.
func NewNotFoundError(resource string) *APIError {
	return NewAPIError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// NewConflictError reports a request that clashes with current state.
func NewConflictError(message string) *APIError {
	return NewAPIError(http.StatusConflict, CodeConflict, message)
}

// NewBadRequestError reports a malformed request.
func NewBadRequestError(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, CodeBadRequest, message)
}

// NewInternalServerError reports an unexpected failure.
func NewInternalServerError(message string) *APIError {
	if message == "" {
		message = "An internal error occurred"
	}
	return NewAPIError(http.StatusInternalServerError, CodeInternal, message)
}

// NewServiceUnavailableError reports a temporary inability to serve the request.
func NewServiceUnavailableError(message string) *APIError {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return NewAPIError(http.StatusServiceUnavailable, CodeServiceUnavailable, message)
}

func (e *APIError) ErrorCode() string { return e.code }

func (e *APIError) Message() string { return e.message }

func (e *APIError) HTTPStatus() int { return e.status }

// Details returns a copy of the attached details, or nil when there are none.
func (e *APIError) Details() map[string]any {
	if len(e.details) == 0 {
		return nil
	}
	return maps.Clone(e.details)
}

// WithDetails attaches a detail entry and returns e.
func (e *APIError) WithDetails(key string, value any) *APIError {
	if e.details == nil {
		e.details = map[string]any{}
	}
	e.details[key] = value
	return e
}

// WithCause records the underlying error for logs and errors.Is/As. It is never
// sent to the client.
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.message
	if e.code != "" {
		msg = e.code + ": " + msg
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.cause
}
