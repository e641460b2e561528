package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the single envelope every failed request replies with.
// Details carries optional structured context (e.g. per-entry field misses).
type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a user-facing error message with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Message: message})
}

// ErrorDetails writes an error message plus structured details.
func ErrorDetails(w http.ResponseWriter, status int, message string, details any) {
	JSON(w, status, ErrorBody{Message: message, Details: details})
}
