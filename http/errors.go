package http

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError indicates a non-2xx response.
type HTTPError struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// URL is the requested address
	URL string
	// Body is the response body
	Body []byte
}

// Error returns a string representation of the HTTP error.
func (e *HTTPError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("http error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status %d from %s", e.StatusCode, e.URL)
}

// Temporary reports whether the status is worth another attempt:
// server errors and 429 are, every other client error is final.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Sentinel errors for HTTP operations.
var (
	// ErrNoResponse indicates no response was received from the server.
	ErrNoResponse = errors.New("no response received")

	// ErrRequestFailed indicates the request itself failed (network error).
	ErrRequestFailed = errors.New("http request failed")

	// ErrDecode indicates a response body could not be decoded as JSON.
	ErrDecode = errors.New("decode response")
)
