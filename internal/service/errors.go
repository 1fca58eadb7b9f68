package service

import (
	"fmt"
	"net/http"
)

// APIError standardizes errors surfaced to HTTP clients. Anything else that
// escapes a service is treated as an internal error by the handler layer.
type APIError struct {
	Code        string
	Description string
	Status      int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func newAPIError(code, desc string, status int) *APIError {
	return &APIError{Code: code, Description: desc, Status: status}
}

func invalidRequest(desc string) *APIError {
	return newAPIError("invalid_request", desc, http.StatusBadRequest)
}

func unauthorized(desc string) *APIError {
	return newAPIError("unauthorized", desc, http.StatusUnauthorized)
}

func notFound(desc string) *APIError {
	return newAPIError("not_found", desc, http.StatusNotFound)
}

// Duplicate emails respond 400, matching the validation taxonomy rather
// than 409.
func conflict(desc string) *APIError {
	return newAPIError("conflict", desc, http.StatusBadRequest)
}
