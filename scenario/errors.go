package scenario

import "strings"

// DeserializationError reports why a document could not be turned into a Bundle.
// Errors is never empty.
type DeserializationError struct {
	Errors []string
}

func newDeserializationError(msgs ...string) *DeserializationError {
	if len(msgs) == 0 {
		msgs = []string{"invalid scenario document"}
	}

	return &DeserializationError{Errors: msgs}
}

func (e *DeserializationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "scenario: invalid document"
	}

	return "scenario: invalid document: " + strings.Join(e.Errors, "; ")
}
