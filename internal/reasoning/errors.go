package reasoning

import (
	"errors"
	"fmt"
)

// ErrorKind classifies reasoning service failures.
type ErrorKind string

const (
	KindConnectivity ErrorKind = "connectivity"
	KindTimeout      ErrorKind = "timeout"
	// KindResponse covers non-2xx statuses and malformed or empty payloads.
	KindResponse ErrorKind = "response"
)

// ServiceError is returned for every failure talking to the service.
type ServiceError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("reasoning %s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("reasoning %s error: %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// KindOf returns the kind of a ServiceError in err's chain, or "" when err
// is not one.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
