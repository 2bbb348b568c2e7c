package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mlmodeld/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
// Registry and schema errors implement it.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps an error to an HTTP status. A deadline maps to 504; otherwise
// the outermost error in the chain that implements HTTPError wins.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
