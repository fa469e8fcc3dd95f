package rtbhouse

import (
	"errors"
	"fmt"
)

// Common errors returned by the RTB House client.
var (
	// ErrVersionRejected indicates the server no longer accepts the API
	// version this client is pinned to (HTTP 410).
	ErrVersionRejected = errors.New("api version rejected by server")
)

// ClientError indicates the request never produced a usable response:
// a connectivity failure (DNS, connect, timeout) or an outright rejection
// of the client's protocol version.
type ClientError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// newVersionRejectedError builds the 410 rejection error. The message names
// both the pinned and the server-advertised version so the operator knows
// what to upgrade to.
func newVersionRejectedError(pinned, newest string) *ClientError {
	return &ClientError{
		Message: fmt.Sprintf("unsupported api version %q, server current version is %q: update the rtbhouse client", pinned, newest),
		Err:     ErrVersionRejected,
	}
}

// APIError represents a structured error response from the RTB House API.
// Message, AppCode and Errors are taken verbatim from the error body when
// the server sends one; otherwise Message is synthesized from the HTTP
// status and AppCode/Errors stay empty.
type APIError struct {
	StatusCode int
	Message    string
	AppCode    string
	Errors     []any
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.AppCode != "" {
		return fmt.Sprintf("rtbhouse API error: status %d (%s): %s", e.StatusCode, e.AppCode, e.Message)
	}
	return fmt.Sprintf("rtbhouse API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// MalformedError indicates the response could not be decoded or lacked an
// expected field. It signals a contract mismatch between client and server,
// not a caller mistake.
type MalformedError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed response from rtbhouse API: %s", e.Reason)
}

// Unwrap returns the underlying error, if any.
func (e *MalformedError) Unwrap() error {
	return e.Err
}
