package job

import (
	"errors"
	"fmt"
)

// PanicError is the error recorded when a work unit panics. It carries
// the recovered value and the goroutine stack captured at recovery time.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("job: work unit panicked: %v", e.Value)
}

// unrecoverableError marks a wrapped error as a fault the retry machine
// must not retry.
type unrecoverableError struct {
	err error
}

func (e *unrecoverableError) Error() string { return e.err.Error() }
func (e *unrecoverableError) Unwrap() error { return e.err }

// Unrecoverable wraps err so the job treats it as an unrecoverable fault
// rather than a transient failure: the job terminates without retrying.
// Returns nil if err is nil.
func Unrecoverable(err error) error {
	if err == nil {
		return nil
	}
	return &unrecoverableError{err: err}
}

// IsUnrecoverable reports whether err is a fault exempt from retrying:
// an error wrapped with [Unrecoverable] or a [PanicError].
func IsUnrecoverable(err error) bool {
	var ue *unrecoverableError
	if errors.As(err, &ue) {
		return true
	}
	var pe *PanicError
	return errors.As(err, &pe)
}
