package grocery

import (
	"errors"
	"fmt"
)

// ErrItemNotFound signals that a mutation targeted an item id that is not in
// the list. Commands treat it as a benign no-op.
var ErrItemNotFound = errors.New("grocery item not found")

// ValidationError reports rejected input, e.g. an empty item name. The
// offending input is rejected without aborting the surrounding command.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError reports a failed store round trip. The engine rolls the
// local optimistic change back before surfacing it.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
