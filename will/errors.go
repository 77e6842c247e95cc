package will

import (
	"fmt"

	"github.com/canopy-network/canopy/lib/vss"
)

// ValidationError reports will input that was rejected before any secret was
// drawn. It matches vss.ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, vss.ErrValidation) hold
func (e *ValidationError) Unwrap() error {
	return vss.ErrValidation
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
