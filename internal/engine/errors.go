package engine

import "fmt"

// ClassificationError reports input that matched no identifier kind.
// Scans fail with this error before any evidence source is queried and
// before anything is written to the store.
type ClassificationError struct {
	// Input is the raw input that could not be classified.
	Input string
}

// Error implements the error interface.
func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unable to classify input %q as phone, email, domain, or crypto address", e.Input)
}

// PersistenceError reports a store write that failed after the scan or
// analysis itself succeeded. The computed record is lost only from the
// store; callers still hold it.
type PersistenceError struct {
	// Op names the failed store operation.
	Op string

	// Err is the underlying store error.
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
