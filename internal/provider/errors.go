package provider

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a 2xx response that lacks the expected fields.
var ErrMalformedResponse = errors.New("malformed response")

// BackendError is returned for any failed LLM call: transport, non-2xx
// status, timeout or a malformed payload.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsBackendError reports whether err carries a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
