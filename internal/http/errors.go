// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/inventory-reservation-service/internal/model"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// WriteDomainError maps a domain error onto an HTTP status and error code.
// Expected business outcomes keep their own codes so the presentation layer
// can message users; transient conflicts surface as a generic retry hint.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrDuplicateAccount):
		WriteJSONError(w, http.StatusConflict, "account_exists", "")
	case errors.Is(err, model.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, "invalid_credentials", "")
	case errors.Is(err, model.ErrUnauthenticated):
		WriteJSONError(w, http.StatusUnauthorized, "unauthenticated", "")
	case errors.Is(err, model.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	case errors.Is(err, model.ErrOutOfStock):
		WriteJSONError(w, http.StatusConflict, "out_of_stock", "")
	case errors.Is(err, model.ErrTransactionConflict):
		WriteJSONError(w, http.StatusServiceUnavailable, "conflict_retry", "try again")
	default:
		WriteJSONError(w, http.StatusServiceUnavailable, "store_unavailable", "")
	}
}
