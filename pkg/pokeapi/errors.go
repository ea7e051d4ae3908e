package pokeapi

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the client.
var (
	// ErrContextCancelled is returned when the context is cancelled while
	// waiting for the rate limiter.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// TransportError indicates a network failure or a non-success status from
// the remote service. For the listing fetch it is terminal for the whole
// load; for an individual record fetch within a batch it only drops that
// record.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pokeapi transport error (%s): %v", e.URL, e.Err)
	}
	return fmt.Sprintf("pokeapi transport error (%s): status %d", e.URL, e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates a direct single-record lookup missed. It is
// surfaced to the user and never touches the catalog store.
type NotFoundError struct {
	Resource string
	Query    string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pokeapi %s %q not found", e.Resource, e.Query)
}

// MalformedRecordError indicates a fetched record is missing required
// fields. The loader treats it like a fetch failure: the record is dropped
// and logged, never appended.
type MalformedRecordError struct {
	URL     string
	Missing []string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("pokeapi malformed record (%s): missing %s", e.URL, strings.Join(e.Missing, ", "))
}

// classify categorizes an error for observability.
func classify(statusCode int, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
