package structured

import (
	"errors"
	"fmt"
)

// Failure kinds. Every runtime failure inside the pipeline wraps one of these
// and ends in the use case's fallback value.
var (
	// ErrTransport means the generation call itself failed.
	ErrTransport = errors.New("generation call failed")

	// ErrNotFound means no parseable JSON object was recovered from the output.
	ErrNotFound = errors.New("no JSON object found")

	// ErrValidation means the recovered document does not satisfy the schema.
	ErrValidation = errors.New("structured output does not match schema")
)

// ValidationError identifies the first schema violation.
type ValidationError struct {
	// Field is the JSON pointer of the offending value ("" for the root).
	Field string
	// Expectation describes the constraint that was violated.
	Expectation string
}

func (e *ValidationError) Error() string {
	field := e.Field
	if field == "" {
		field = "/"
	}
	return fmt.Sprintf("%s: %s", field, e.Expectation)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
