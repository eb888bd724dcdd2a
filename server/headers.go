package server

// HTTP header names not provided by Echo.
const (
	// HeaderXResponseTime reports request processing duration. Set by the timing middleware.
	HeaderXResponseTime = "X-Response-Time"
)
