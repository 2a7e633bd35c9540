package backend

import "fmt"

// Error represents a failed backend call: either a transport failure or a
// non-2xx response. Handlers translate it into a structured JSON failure
// body; the client never retries on its own.
type Error struct {
	// Method and Path identify the attempted call.
	Method string
	Path   string

	// StatusCode is the HTTP status returned by the backend (0 for
	// transport failures).
	StatusCode int

	// Message is the backend's response body, when one was received.
	Message string

	// Cause is the underlying transport error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend %s %s failed (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend %s %s failed: %v", e.Method, e.Path, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}
