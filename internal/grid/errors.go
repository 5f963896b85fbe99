package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWeeks is returned when an operation needs the month's weeks and
	// none are loaded.
	ErrNoWeeks = errors.New("no weeks loaded")

	// ErrSubmitInFlight is returned when a submission is started while the
	// previous one is still pending.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrNotLoaded is returned when the month's stored shifts are not
	// loaded, so the store cannot stand for the backend's month.
	ErrNotLoaded = errors.New("stored shifts are not loaded")

	// ErrNoEditor is returned when an editor action arrives with no editor open.
	ErrNoEditor = errors.New("no shift editor is open")

	// ErrNotReady is returned by Editor.Save before an hour (and, for timed
	// buckets, a shift) is chosen.
	ErrNotReady = errors.New("shift selection is incomplete")

	// ErrNothingToDelete is returned by Editor.Delete outside edit mode.
	ErrNothingToDelete = errors.New("cell has no shift to delete")

	// ErrForbidden is returned when the user's role may not open the grid.
	ErrForbidden = errors.New("your role cannot manage shifts")
)

// ValidationError reports a payload that cannot be submitted as built.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}
