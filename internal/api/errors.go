package api

import (
	"errors"
	"fmt"
)

// genericServerMessage is shown when a failing response carries no usable
// message body.
const genericServerMessage = "Something went wrong. Please try again."

// AuthError is returned when an authenticated endpoint answers 401 or 403.
// The stored token is no longer valid; callers should clear the session
// store and return to the login screen.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("unauthorized (%d): %s", e.StatusCode, e.Message)
}

// ServerError is any other non-2xx response. Message is extracted from the
// response body when present, else a generic fallback.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// NetworkError is a transport failure or malformed response: the request
// never produced a usable answer. It does not invalidate the session and is
// safe to retry.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// UserMessage converts an API error into the text shown to the user.
func UserMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}

	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Message
	}

	if IsNetworkError(err) {
		return "Cannot reach the server. Please try again."
	}

	return genericServerMessage
}
