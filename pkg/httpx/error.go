package httpx

import (
	"fmt"
	"net/http"
)

// Error codes exposed by the API. These are stable identifiers; the
// descriptions are advisory.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeDuplicateName      = "duplicate_name"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthenticated    = "unauthenticated"
	ErrorCodeUploadFailed       = "upload_failed"
	ErrorCodeServerError        = "server_error"
)

// Error is the JSON error shape every endpoint returns on failure. It
// implements the error interface so handlers can pass it around before
// writing it.
type Error struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the stable error identifier (e.g. "duplicate_name").
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this Error to the response writer.
func (e *Error) WriteError(w http.ResponseWriter) {
	WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest covers missing or blank required fields.
	ErrInvalidRequest = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	// ErrDuplicateName is returned when registering an already-taken name.
	ErrDuplicateName = &Error{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateName,
		Description: "username already exists",
	}

	// ErrNotFound covers unknown users and items.
	ErrNotFound = &Error{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "the requested record does not exist",
	}

	// ErrInvalidCredentials is returned on a password mismatch at login.
	ErrInvalidCredentials = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "incorrect password",
	}

	// ErrUnauthenticated is returned when the session token is missing,
	// invalid or expired.
	ErrUnauthenticated = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "the session token is missing, invalid or expired",
	}

	// ErrUploadFailed is returned when the media store rejected or timed
	// out an image upload. The enclosing submission is aborted.
	ErrUploadFailed = &Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeUploadFailed,
		Description: "image upload failed",
	}

	// ErrServerError covers store failures and other internal errors.
	ErrServerError = &Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewError creates an Error with a custom description.
func NewError(statusCode int, code, description string) *Error {
	return &Error{StatusCode: statusCode, Code: code, Description: description}
}
