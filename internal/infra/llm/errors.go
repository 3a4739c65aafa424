package llm

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks a model family that is recognized but has no
// backend yet (claude, custom). Handlers map it to 501.
var ErrNotImplemented = errors.New("backend not yet implemented")

// MissingCredentialError is returned when a family's API key is absent from
// the environment. Absence degrades the family to this typed failure; it
// never crashes the process.
type MissingCredentialError struct {
	Provider string // "NVIDIA" or "OpenAI"
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s API key not configured", e.Provider)
}

// BackendError carries an upstream HTTP failure: a non-2xx status with the
// response body, or a transport error.
type BackendError struct {
	Status int    // 0 for transport failures
	Body   string // upstream response body when available
	Err    error  // underlying transport error, if any
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend request failed: %v", e.Err)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

func (e *BackendError) Unwrap() error { return e.Err }
