package backup

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat means the payload is not a recognizable backup: one or
// more of the three collections is missing. The store is untouched.
var ErrInvalidFormat = errors.New("invalid backup format: data.doctors, data.patients, and data.prescriptions must all be present")

// ValidationError reports a malformed record found before any mutation.
// The store is untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed at %s: %s", e.Field, e.Reason)
}

// ImportError reports a failure after the destructive phase began.
// RolledBack means the pre-import snapshot was restored; Critical means the
// rollback itself failed and the store may hold partial data.
type ImportError struct {
	Err        error
	RolledBack bool
	Critical   bool
}

func (e *ImportError) Error() string {
	switch {
	case e.Critical:
		return fmt.Sprintf("import failed and rollback failed, data may be inconsistent: %v", e.Err)
	case e.RolledBack:
		return fmt.Sprintf("import failed, previous data restored: %v", e.Err)
	default:
		return fmt.Sprintf("import failed: %v", e.Err)
	}
}

func (e *ImportError) Unwrap() error { return e.Err }
