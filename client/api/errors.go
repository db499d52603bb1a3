package api

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindNetwork ErrorKind = "network"
	ErrorKindTimeout ErrorKind = "timeout"
	ErrorKindHTTP4xx ErrorKind = "http_4xx"
	ErrorKindHTTP5xx ErrorKind = "http_5xx"
	ErrorKindParse   ErrorKind = "parse"
)

// genericMessage is what the user sees when the server did not say anything
// more specific.
const genericMessage = "request failed, check your connection and try again"

// Error is the failure type for every remote call. Message carries the
// server-supplied error body when one was present; Status the HTTP status
// when the request reached the server.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Kind)
	}
	if e.cause != nil {
		return fmt.Sprintf("api: %s: %s", e.Kind, e.cause)
	}
	return fmt.Sprintf("api: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// UserMessage returns the server's own error message when present,
// otherwise a generic connectivity message. Server text always wins.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return genericMessage
}

// KindOf classifies any error returned by this package. Errors from other
// sources report ErrorKindNetwork, the safest assumption for a client.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrorKindNetwork
}

// UserMessageOf extracts a user-facing message from any error.
func UserMessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return genericMessage
}
