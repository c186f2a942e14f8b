package mnemon

import "fmt"

// ValidationError reports user-supplied input out of bounds: content
// length, category, importance range, tag/entity caps, edge type, weight
// range. It never mutates state before being returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a referenced id or store that does not exist.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

func preconditionErrorf(format string, args ...any) error {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}
