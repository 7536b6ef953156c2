package contact

import "fmt"

// User-facing status texts.
const (
	SuccessMessage          = "Message sent successfully! I'll get back to you soon."
	TransportFailureMessage = "Failed to send message. Please try again or contact me directly."
)

// ValidationError is a local input problem. It never leaves the client and
// blocks dispatch.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

var (
	ErrMissingFields = &ValidationError{Reason: "missing fields"}
	ErrInvalidEmail  = &ValidationError{Reason: "invalid email"}
)

// ServerError means the relay answered but reported a failure. Message is
// shown to the visitor verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("relay rejected submission (status %d): %s", e.StatusCode, e.Message)
}

// TransportError covers every outcome without an interpretable response:
// network failures, timeouts and non-2xx replies without a failure payload.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "contact transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
