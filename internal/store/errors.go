package store

import (
	"errors"
	"fmt"
)

// NotFoundError reports an update against an entity id that does not exist.
// Deletes are idempotent and never produce it.
type NotFoundError struct {
	Kind string // "task" or "project"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
