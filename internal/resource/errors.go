package resource

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by mutations issued without an acting
// identity. The durable collection is left untouched.
var ErrNotAuthenticated = errors.New("not authenticated")

// NotFoundError indicates the referenced entity id does not exist in
// the durable collection.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Collection, e.ID)
}

// IsNotFound reports whether err (or any error in its chain) is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// StorageError wraps a failure of the durable adapter or of decoding a
// persisted record. Helper failures never escape the resource layer
// in any other shape.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorage reports whether err (or any error in its chain) is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ValidationError indicates malformed input rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err (or any error in its chain) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
