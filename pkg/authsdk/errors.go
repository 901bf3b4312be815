package authsdk

import (
	"fmt"
	"net/http"

	"github.com/couchloft/pgpauth/pkg/httpx"
)

// APIError is the wire error shape shared by server and client:
// {status, name, message}. It implements the error interface so handlers can
// write it and SDK callers can match on it.
type APIError struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// WriteError writes this error to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.Status, e)
}

// Predefined wire errors. ErrUnauthorized is deliberately the only shape any
// login failure produces; its message never varies with the failing check.
var (
	ErrUnauthorized = &APIError{
		Status:  http.StatusUnauthorized,
		Name:    "unauthorized",
		Message: "Name or password is incorrect.",
	}

	ErrConflict = &APIError{
		Status:  http.StatusConflict,
		Name:    "conflict",
		Message: "Document update conflict.",
	}

	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Name:    "not_found",
		Message: "missing",
	}

	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Name:    "bad_request",
		Message: "Invalid request body or parameters.",
	}

	ErrForbidden = &APIError{
		Status:  http.StatusForbidden,
		Name:    "forbidden",
		Message: "You are not allowed to access this resource.",
	}

	ErrServerError = &APIError{
		Status:  http.StatusInternalServerError,
		Name:    "server_error",
		Message: "Internal server error.",
	}
)
