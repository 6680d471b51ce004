// Copyright Redwood Labs, 2026. All rights reserved.

package api

import "fmt"

// ValidationError reports a request that was rejected before any network
// I/O: missing credential, no inputs, malformed format tag, a forced input
// mode that does not match the input count, or a referenced local file that
// does not exist. Validation errors are never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// APIError is a non-success HTTP response from the conversion endpoint.
// The service received and rejected the request.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	if body == "" {
		return fmt.Sprintf("conversion API responded with HTTP %d", e.Status)
	}
	return fmt.Sprintf("conversion API responded with HTTP %d: %s", e.Status, body)
}

// TransportError means the request never completed: a timeout, connection
// failure, or other transport-level fault, as opposed to the service
// rejecting the request.
type TransportError struct {
	// Timeout is set when the failure was a deadline or I/O timeout.
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v", e.Err)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DownloadError reports a failure fetching one result file. Files already
// saved from the same response are kept.
type DownloadError struct {
	URL    string
	Target string
	Err    error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading %s to %s: %v", e.URL, e.Target, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
