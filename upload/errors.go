package upload

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind classifies the failures the pipeline knows how to present to a user.
type Kind int

const (
	// KindTooManyFiles means the drop did not contain exactly one file.
	KindTooManyFiles Kind = iota + 1
	// KindRead means the single accepted file could not be read.
	KindRead
	// KindUnknown means the deserializer produced neither a bundle nor a structured error.
	KindUnknown
	// KindValidation means the document failed to parse or validate.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTooManyFiles:
		return "too_many_files"
	case KindRead:
		return "read"
	case KindUnknown:
		return "unknown"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// User-facing messages for the single-message kinds.
const (
	MessageTooManyFiles = "Only one file is expected"
	MessageRead         = "Unable to read file."
	MessageUnknown      = "Unknown error"
)

// Error is a known, user-presentable pipeline failure.
// Any error returned by the pipeline that is not an *Error is unrecognized
// and must be handled by the caller.
type Error struct {
	Kind Kind

	// Count is the number of files in the drop, for KindTooManyFiles.
	Count int

	// Details holds one message per violation, for KindValidation.
	Details []string

	// Err is the underlying cause, if any.
	Err error
}

// TooManyFiles returns a KindTooManyFiles error for a drop of count files.
func TooManyFiles(count int) *Error {
	return &Error{Kind: KindTooManyFiles, Count: count}
}

// ReadFailure returns a KindRead error wrapping cause.
func ReadFailure(cause error) *Error {
	return &Error{Kind: KindRead, Err: cause}
}

// UnknownFailure returns a KindUnknown error.
func UnknownFailure() *Error {
	return &Error{Kind: KindUnknown}
}

// ValidationFailure returns a KindValidation error carrying details.
func ValidationFailure(cause error, details []string) *Error {
	return &Error{Kind: KindValidation, Details: slices.Clone(details), Err: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	switch e.Kind {
	case KindTooManyFiles:
		return fmt.Sprintf("upload: expected exactly one file, got %d", e.Count)
	case KindValidation:
		return "upload: invalid scenario: " + strings.Join(e.Details, "; ")
	case KindRead:
		if e.Err != nil {
			return fmt.Sprintf("upload: %v", e.Err)
		}

		return "upload: failed to read file"
	default:
		return "upload: " + e.Kind.String() + " failure"
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// Messages returns the user-facing messages for e: one per validation
// violation, otherwise exactly one.
func (e *Error) Messages() []string {
	switch e.Kind {
	case KindTooManyFiles:
		return []string{MessageTooManyFiles}
	case KindRead:
		return []string{MessageRead}
	case KindValidation:
		if len(e.Details) == 0 {
			return []string{MessageUnknown}
		}

		return slices.Clone(e.Details)
	default:
		return []string{MessageUnknown}
	}
}

// AsError reports whether err is (or wraps) a known pipeline failure.
func AsError(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}

	return nil, false
}

// IsKind reports whether err is a known pipeline failure of the given kind.
func IsKind(err error, kind Kind) bool {
	ue, ok := AsError(err)

	return ok && ue.Kind == kind
}
