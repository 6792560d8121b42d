// Package apperr holds the error taxonomy shared by the token service, the
// feedback store and the HTTP layer. Lower layers wrap these sentinels with
// fmt.Errorf("%s: %w", op, err) and handlers map them back with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidRequest means a required field is missing or empty.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthenticated means the bearer token is missing, malformed,
	// wrongly signed or expired.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrStoreUnavailable means the backing store could not be reached or
	// the operation failed.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
