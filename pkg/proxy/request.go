package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodySize is the maximum allowed request body size (1MB).
// Gateway requests are small control messages, never model data.
const MaxRequestBodySize = 1 * 1024 * 1024

// ValidationError reports a missing or malformed request field. It is
// raised before any backend I/O happens and maps to HTTP 400.
type ValidationError struct {
	// Field is the offending request field.
	Field string

	// Message describes what is wrong with it.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request field %q: %s", e.Field, e.Message)
}

// DecodeJSON decodes an inbound request body into dst, enforcing the body
// size limit. An unreadable or syntactically invalid body yields a
// ValidationError.
func DecodeJSON(r *http.Request, dst any) error {
	limited := io.LimitReader(r.Body, MaxRequestBodySize)

	body, err := io.ReadAll(limited)
	if err != nil {
		return &ValidationError{Field: "body", Message: "failed to read request body"}
	}
	if len(body) == 0 {
		return &ValidationError{Field: "body", Message: "request body is empty"}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &ValidationError{Field: "body", Message: "request body is not valid JSON"}
	}
	return nil
}
