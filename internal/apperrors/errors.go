package apperrors

import (
	"errors"
	"fmt"
)

// Domain error kinds. Callers branch with errors.Is; handlers map them to
// HTTP status codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("student is not a member of the room")
	ErrNotStarted      = errors.New("game has not started")
	ErrExpired         = errors.New("game window has closed")
	ErrInvalidConfig   = errors.New("invalid game config")
	ErrOutOfOrder      = errors.New("answer submitted for the wrong question")
	ErrAlreadyFinished = errors.New("session is already finished")
	ErrConflict        = errors.New("concurrent update conflict")

	// ErrDuplicate signals a uniqueness-constraint violation on insert. It is
	// internal to the storage layer: services resolve it by re-reading the
	// existing row, it is never surfaced to callers.
	ErrDuplicate = errors.New("duplicate record")
)

// StorageError wraps any repository failure so that infrastructure errors are
// distinguishable from domain errors.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError, preserving nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
