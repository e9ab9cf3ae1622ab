package validate

import (
	"errors"
	"strings"
)

// FieldError is a single failed field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is an ordered list of field failures.
type Errors []FieldError

// Add appends a failure for field.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Error renders one bullet per field.
func (e Errors) Error() string {
	lines := make([]string, 0, len(e))
	for _, fe := range e {
		lines = append(lines, "• "+fe.Field+": "+fe.Message)
	}
	return strings.Join(lines, "\n")
}

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Merge combines err with more. A non-validation err is returned unchanged.
func Merge(err error, more Errors) error {
	if err == nil {
		return more.Err()
	}
	var errs Errors
	if !errors.As(err, &errs) {
		return err
	}
	return append(errs, more...)
}
