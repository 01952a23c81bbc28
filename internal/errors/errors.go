// Package errors defines the engine's error taxonomy. Handlers map these
// onto HTTP statuses; batch processing aggregates them per shipment instead
// of aborting runs.
package errors

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ValidationError reports malformed input, naming the offending field.
// It is never retried automatically.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a rule that would overlap existing active rules.
// BlockingIDs identifies the rules an administrator must deactivate first.
type ConflictError struct {
	Message     string
	BlockingIDs []uint
}

func (e *ConflictError) Error() string {
	return e.Message
}
