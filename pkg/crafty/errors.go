package crafty

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrEmptyCommand is returned by SendCommand before any network call when
// the console command is blank.
var ErrEmptyCommand = errors.New("console command is empty")

// AuthReason narrows why the panel rejected the caller.
type AuthReason int

const (
	AuthUnknown AuthReason = iota
	AuthInvalidCredentials
	AuthTooManyAttempts
	AuthAccountDisabled
)

func (r AuthReason) String() string {
	switch r {
	case AuthInvalidCredentials:
		return "invalid credentials"
	case AuthTooManyAttempts:
		return "too many login attempts"
	case AuthAccountDisabled:
		return "account disabled"
	default:
		return "authentication failed"
	}
}

// AuthError covers 401/403/429 responses, on login or any authenticated
// call. A 401 on an authenticated call means the token is no longer valid
// and the caller should log in again; there is no token refresh.
type AuthError struct {
	Reason     AuthReason
	HTTPStatus int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Reason, e.HTTPStatus)
}

func newAuthError(status int) *AuthError {
	reason := AuthUnknown
	switch status {
	case http.StatusUnauthorized:
		reason = AuthInvalidCredentials
	case http.StatusTooManyRequests:
		reason = AuthTooManyAttempts
	case http.StatusForbidden:
		reason = AuthAccountDisabled
	}
	return &AuthError{Reason: reason, HTTPStatus: status}
}

// NetworkKind narrows a transport failure.
type NetworkKind int

const (
	NetworkOther NetworkKind = iota
	NetworkUnresolvedHost
	NetworkTimeout
)

func (k NetworkKind) String() string {
	switch k {
	case NetworkUnresolvedHost:
		return "host unreachable"
	case NetworkTimeout:
		return "connection timed out"
	default:
		return "connection failed"
	}
}

// NetworkError wraps a transport-level failure (DNS, timeout, TLS, refused
// connection). These are retryable from the user's point of view, but the
// client performs no automatic retries.
type NetworkError struct {
	Kind NetworkKind
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func wrapNetworkError(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &NetworkError{Kind: NetworkUnresolvedHost, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &NetworkError{Kind: NetworkTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Kind: NetworkTimeout, Err: err}
	}
	return &NetworkError{Kind: NetworkOther, Err: err}
}

// APIError covers responses where the panel itself reported failure: either
// a non-2xx status outside the auth range, or a 2xx whose envelope status is
// not "ok". Message carries the envelope's error_data text when present.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Code, e.HTTPStatus)
	}
	return fmt.Sprintf("panel request failed (HTTP %d)", e.HTTPStatus)
}
