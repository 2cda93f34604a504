// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler of the development backend sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/restaurant-directory/internal/validation"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses return the record (or list of records) directly.
// Error responses always look like:
//
//	{ "status": "error", "error": "restaurant not found" }
//
// Validation failures additionally carry the per-field messages:
//
//	{ "status": "error", "error": "validation failed: ...",
//	  "fields": { "email": "Please enter a valid email address" } }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError turns field errors into a Response that keeps the
// field -> message mapping, so a client can show each message next to
// its input.
func ValidationError(errs validation.FieldErrors) Response {
	fields := make(map[string]string, len(errs))
	for f, msg := range errs {
		fields[f] = msg
	}

	return Response{
		Status: StatusError,
		Error:  errs.Error(),
		Fields: fields,
	}
}
