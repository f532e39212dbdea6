package core

import (
	"errors"
	"fmt"
)

// The three error classes every operation reports through. Callers map
// them to their own surface (the HTTP shell uses 400/404/500); nothing
// is retried internally.

// ValidationError marks malformed or missing caller input. It carries
// enough detail for the caller to fix the request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError marks an operation that targets a nonexistent purchase.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("purchase %s not found", e.ID)
}

// StorageError wraps a durable read/write failure. It is a server-side
// failure, distinct from caller error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
