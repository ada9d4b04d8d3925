package core

import (
	"errors"

	"github.com/edvin/cdcadmin/internal/store"
)

var (
	// ErrNotFound marks references to records that are not in the loaded
	// lists.
	ErrNotFound = errors.New("not found")
	// ErrInProgress is returned when the same action is already running.
	ErrInProgress = store.ErrInProgress
)

// NotFoundError is a stale reference to a record, reported against the form
// field that holds it.
type NotFoundError struct {
	Field   string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
