package engine

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by single-entity operations referencing an
// unknown request id. Bulk operations never return it; ids they do not
// recognize are silently excluded.
var ErrNotFound = errors.New("request not found")

// ValidationError reports a caller-visible input problem. The operation
// aborts with no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
