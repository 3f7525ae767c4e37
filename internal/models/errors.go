package models

import (
	"errors"
	"fmt"
)

// ErrObjectNotFound means the catalog has no object under the requested id.
var ErrObjectNotFound = errors.New("object not found in catalog")

// UpstreamError is any catalog failure other than not-found: network errors,
// timeouts, auth failures, rate limiting, malformed payloads. StatusCode is
// zero when the catalog never produced an HTTP status.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("catalog unavailable: %v", e.Err)
	}
	return fmt.Sprintf("catalog error (status %d): %v", e.StatusCode, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
