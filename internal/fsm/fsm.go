// Package fsm holds the two per-instance state machines that drive box
// drawing: the drawing status (create/idle/edit/cancel) and the hover
// classification of the pointer against the border band of a box.
//
// Both machines are pure functions of (state, event). An event that is not
// defined for the current state yields ErrInvalidTransition.
package fsm

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an event is not accepted by the
// current state.
var ErrInvalidTransition = errors.New("invalid transition")

// Status is the drawing status of an instance.
type Status int

const (
	StatusCreate Status = iota
	StatusIdle
	StatusEdit
	StatusCancel
)

func (s Status) String() string {
	switch s {
	case StatusCreate:
		return "CREATE"
	case StatusIdle:
		return "IDLE"
	case StatusEdit:
		return "EDIT"
	case StatusCancel:
		return "CANCEL"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// StatusEvent names a status transition.
type StatusEvent int

const (
	// Confirm places a box: CREATE -> IDLE.
	Confirm StatusEvent = iota
	// Edit starts editing a placed box: IDLE -> EDIT.
	Edit
	// Cancel abandons an edit: EDIT -> CANCEL.
	Cancel
	// Settle leaves the transient cancel state: CANCEL -> IDLE.
	Settle
	// Commit keeps an edit: EDIT -> IDLE.
	Commit
)

func (e StatusEvent) String() string {
	switch e {
	case Confirm:
		return "confirm"
	case Edit:
		return "edit"
	case Cancel:
		return "cancel"
	case Settle:
		return "settle"
	case Commit:
		return "commit"
	}
	return fmt.Sprintf("StatusEvent(%d)", int(e))
}

// StepStatus applies ev to s.
func StepStatus(s Status, ev StatusEvent) (Status, error) {
	switch {
	case s == StatusCreate && ev == Confirm:
		return StatusIdle, nil
	case s == StatusIdle && ev == Edit:
		return StatusEdit, nil
	case s == StatusEdit && ev == Cancel:
		return StatusCancel, nil
	case s == StatusCancel && ev == Settle:
		return StatusIdle, nil
	case s == StatusEdit && ev == Commit:
		return StatusIdle, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, s)
}
