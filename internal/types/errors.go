package types

import "fmt"

// InputError is returned when a required field is missing.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// FormatError is returned when the text of a field cannot be parsed.
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q is not valid: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s %q is not valid", e.Field, e.Value)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a value is well-formed, but not acceptable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
