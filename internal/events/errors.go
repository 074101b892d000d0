package events

import "fmt"

// ValidationError reports a signal missing one of its mandatory fields.
// Nothing is persisted when validation fails.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// NewValidationError creates a ValidationError for the given field name.
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}
