package lifecycle

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned by Next when the event is not allowed
// from the current status.
var ErrInvalidTransition = errors.New("invalid task status transition")

// TransitionError describes a rejected (from, event) pair.
type TransitionError struct {
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot apply %s to a task in status %s", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ErrUnknownStatus is matched by UnknownStatusError.
var ErrUnknownStatus = errors.New("unknown task status")

type UnknownStatusError struct {
	Value string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown task status %q", e.Value)
}

func (e *UnknownStatusError) Unwrap() error { return ErrUnknownStatus }
