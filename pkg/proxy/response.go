package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// FailureResponse is the JSON body returned for every non-streaming
// failure path.
type FailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// SuccessResponse is the JSON body returned for simple acknowledgements.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteSuccess writes the `{"success":true}` acknowledgement.
func WriteSuccess(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// WriteFailure writes a structured failure body. cause may be nil.
func WriteFailure(w http.ResponseWriter, statusCode int, message string, cause error) error {
	resp := FailureResponse{Message: message}
	if cause != nil {
		resp.Error = cause.Error()
	}
	return WriteJSON(w, statusCode, resp)
}

// WriteValidationFailure writes the 400 response for a ValidationError.
func WriteValidationFailure(w http.ResponseWriter, err *ValidationError) error {
	return WriteFailure(w, http.StatusBadRequest, err.Error(), nil)
}

// WriteRaw writes a backend body through to the client unchanged.
func WriteRaw(w http.ResponseWriter, statusCode int, body []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err := w.Write(body)
	return err
}
