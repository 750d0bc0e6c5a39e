package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a user ID has no stored session.
var ErrSessionNotFound = errors.New("session not found")

// ErrBoatNotFound is returned when a boat name is not in the catalog.
var ErrBoatNotFound = errors.New("boat not found")

// ErrStepMismatch is returned when a button token does not belong to the current step.
// Duplicate or late clicks land here.
var ErrStepMismatch = errors.New("button does not match current step")

// ErrUnauthorized is returned when a non-admin user tries to start a session.
var ErrUnauthorized = errors.New("user is not an administrator")

// ValidationError is an input rejection. Reason is shown to the user.
type ValidationError struct {
	Step   Step
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input at %s: %s", e.Step, e.Reason)
}

// Reject builds a ValidationError.
func Reject(step Step, reason string) error {
	return &ValidationError{Step: step, Reason: reason}
}

// RenderError wraps a failure to produce the booking document.
type RenderError struct {
	Boat string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render booking card for %q: %v", e.Boat, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// TransportError wraps a failure to deliver an action to the user.
type TransportError struct {
	Action ActionType
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("deliver %s: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
