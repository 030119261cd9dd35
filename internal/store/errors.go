package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("task not found")
	// ErrUnimplemented is returned for backends that are declared but not built.
	ErrUnimplemented = errors.New("not implemented")
)

// NotFoundError reports an operation on a task id that no layer holds.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with id %q does not exist", e.ID)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
