package api

import (
	"fmt"
	"net/http"
)

// NetworkError is a transport-level failure: DNS, refused connection,
// timeout. No HTTP response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx HTTP response. Message carries the
// backend-provided explanation when the body contained one.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Status)
}

// UserMessage returns text suitable for direct display: the backend
// message when present, otherwise a status-derived generic one.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.StatusCode {
	case http.StatusConflict:
		return "this slot has already been booked"
	case http.StatusNotFound:
		return "the requested record no longer exists"
	default:
		return fmt.Sprintf("the server rejected the request (status %d)", e.StatusCode)
	}
}
