package constants

// Context keys shared between middleware and handlers
const (
	// Validated request payloads
	ContextKeyContact = "contact"

	// Request plumbing
	ContextKeyRawBody   = "rawBody"
	ContextKeyRequestID = "requestID"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"
