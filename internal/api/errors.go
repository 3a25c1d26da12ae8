// Package api provides thin clients for the invoice backend REST API.
// Every failure is normalized into a tagged Error so page handlers can
// treat backend, network and decoding failures uniformly.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Kind classifies an API failure.
type Kind string

const (
	// KindNetwork means the request never reached the backend or the
	// response never arrived.
	KindNetwork Kind = "network"
	// KindServer means the backend answered non-2xx.
	KindServer Kind = "server"
	// KindNotFound is a server error for an unknown resource id.
	KindNotFound Kind = "not_found"
	// KindMalformed means a 2xx response had an unexpected shape.
	KindMalformed Kind = "malformed"
)

// Error is the normalized failure value produced at the client boundary.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Status  int
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Details)
	}
	return e.Message
}

// UserMessage returns the text shown inline to the user. It is never empty.
func (e *Error) UserMessage() string {
	if e.Message == "" {
		return genericFailure
	}
	return e.Error()
}

// IsNotFound reports whether err is a normalized not-found failure.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// Message extracts a user-facing message from any error returned by this
// package, falling back to a generic one for unexpected error values.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return genericFailure
}

const genericFailure = "Network error or an unexpected issue occurred."

// errorBody is the backend's structured error shape.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// maxErrorBodyBytes bounds how much of an error response we will read.
const maxErrorBodyBytes = 64 << 10

// networkError wraps a transport failure.
func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: genericFailure,
		Details: err.Error(),
	}
}

// statusError normalizes a non-2xx response, preferring the backend's
// structured {error, details} body when it is present.
func statusError(resp *http.Response) *Error {
	kind := KindServer
	if resp.StatusCode == http.StatusNotFound {
		kind = KindNotFound
	}

	apiErr := &Error{
		Kind:    kind,
		Message: fmt.Sprintf("backend returned status %d", resp.StatusCode),
		Status:  resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return apiErr
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		apiErr.Message = parsed.Error
		apiErr.Details = parsed.Details
	}
	return apiErr
}

// malformedError marks a 2xx response whose body could not be understood.
func malformedError(detail string) *Error {
	return &Error{
		Kind:    KindMalformed,
		Message: "Unexpected response from server.",
		Details: detail,
	}
}
