// Package errors defines the failure types returned by the Graph API client.
//
// Every response outside the 2xx range becomes an *APIError carrying the raw
// response body. Transport failures are never converted; they reach the
// caller wrapped with %w so errors.As against the transport's own type works.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned whenever the Graph API answers with a non-2xx status,
// or with a 2xx body that cannot be decoded.
type APIError struct {
	// Operation names the client method that issued the request
	Operation string
	// StatusCode is the HTTP status returned by the API
	StatusCode int
	// Body is the raw response body, unparsed
	Body string
}

func (e *APIError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("graph api error (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("graph api error in %s (status %d): %s", e.Operation, e.StatusCode, e.Body)
}

// Temporary reports whether the status usually clears up on its own. The
// client never acts on it; it is there for callers that retry themselves.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ValidationError reports a request the client refused to send.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return "invalid request: " + e.Message
}

var (
	// ErrMissingCredentials is returned before any network call when an
	// operation needs an access token or user id the credentials lack.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrUnsupportedOption is wrapped by validation failures for options the
	// selected platform does not accept.
	ErrUnsupportedOption = errors.New("option not supported by platform")
)

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err is, or wraps, an *APIError.
func IsAPIError(err error) bool {
	_, ok := AsAPIError(err)
	return ok
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Is and As re-export the standard library helpers so callers importing this
// package under the name errors keep access to them.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target any) bool { return errors.As(err, target) }

// New is errors.New.
func New(text string) error { return errors.New(text) }
