package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed caller input. Never retryable.
	ErrValidation = errors.New("validation failed")
	// ErrUnavailable indicates the backing store could not be reached.
	// Callers may retry these requests.
	ErrUnavailable = errors.New("storage unavailable")
)

// Validationf wraps ErrValidation with a descriptive message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
