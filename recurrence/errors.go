package recurrence

import (
	"fmt"
	"strings"
)

// FieldError describes why a single rule field failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Reason
}

// ValidationError reports every invalid field of a structured rule candidate.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid recurrence rule: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// RecurrenceError covers failures outside single-field validation: an
// unsupported payload shape, an unparseable rule string, or a violated
// planner precondition.
type RecurrenceError struct {
	Msg string
	Err error
}

func (e *RecurrenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *RecurrenceError) Unwrap() error {
	return e.Err
}
