package shipment

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("shipment not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrVersionConflict   = errors.New("shipment modified concurrently")
)

// ValidationError reports a malformed or missing input field. The record is
// never touched when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransitionError reports an action that is not legal for the record's current
// status or actor. It unwraps to ErrInvalidTransition.
type TransitionError struct {
	Action string
	From   Status
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("action %s not allowed from status %s: %s", e.Action, e.From, e.Reason)
	}
	return fmt.Sprintf("action %s not allowed from status %s", e.Action, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// StorageError wraps a persistence failure so callers can tell it apart from
// validation and transition failures.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
