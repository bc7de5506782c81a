// Package invariant holds the error used by the scoring core to report
// caller bugs: inputs that break an invariant of the data model.
package invariant

import (
	"errors"
	"fmt"
)

// ErrViolation is wrapped by every invariant error so callers can tell a
// caller bug apart from an ordinary failure with errors.Is.
var ErrViolation = errors.New("invariant violation")

// Errorf formats an error that wraps ErrViolation.
func Errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrViolation, fmt.Sprintf(format, args...))
}

// Is reports whether err is an invariant violation.
func Is(err error) bool {
	return errors.Is(err, ErrViolation)
}
