package api

import (
	"errors"
	"fmt"
)

// AuthError indicates that the backend rejected the request's credential.
// It is returned when a 401 response is received, so callers can route the
// user back to the login screen instead of retrying.
type AuthError struct {
	Operation string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s rejected, sign in again", e.Operation)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusError carries a non-2xx backend response that is not an auth failure.
type StatusError struct {
	StatusCode int
	Operation  string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(
		"unexpected status %d on %s: %s",
		e.StatusCode, e.Operation, e.Body,
	)
}
