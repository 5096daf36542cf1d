// Package api is the sole boundary to the remote prep service. It
// converts raw network results into typed outcomes; transport-level
// failures never cross this boundary unclassified.
package api

import (
	"errors"
	"fmt"
)

// ValidationError indicates caller input failed a local precondition.
// It is raised before any network call and is always recoverable by
// correcting the input.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NotFoundError indicates the referenced resource no longer exists
// server-side. Surfaced as "not found", never retried automatically.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// RemoteError indicates a non-2xx response, a transport failure, or a
// malformed envelope. Message carries the envelope's message verbatim
// when present, else a generic fallback; the caller may retry manually.
type RemoteError struct {
	Status  int
	Message string
	Cause   error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Status > 0 {
		return fmt.Sprintf("remote error (status %d): %s", e.Status, msg)
	}
	return fmt.Sprintf("remote error: %s", msg)
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err classifies as a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err classifies as a missing resource.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsRemote reports whether err classifies as a remote/transport failure.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
