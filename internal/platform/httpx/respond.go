// Package httpx carries the JSON response and error-mapping helpers shared
// by every handler.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Problem is an RFC7807 problem-details body.
type Problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON writes data as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func problem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{Title: title, Status: status, Detail: detail})
}

// RespondError maps domain errors onto problem-details responses.
// Validation failures are terminal for the caller; unavailability carries a
// Retry-After hint so clients know the request is retryable. Anything
// unclassified stays a bare 500 so internals never leak.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation):
		problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrUnavailable):
		w.Header().Set("Retry-After", "5")
		problem(w, http.StatusServiceUnavailable, "Storage Unavailable", err.Error())
	default:
		problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
