package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrIncomplete matches every *IncompleteAssessmentError via errors.Is.
	ErrIncomplete = errors.New("assessment incomplete")
)

// ValidationError reports an input that fails a component precondition.
// The offending write is rejected and the State keeps its prior value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IncompleteAssessmentError reports that a derived view was requested
// before a mandatory module was evaluated.
type IncompleteAssessmentError struct {
	Missing Module
}

func (e *IncompleteAssessmentError) Error() string {
	return fmt.Sprintf("complete at least the %s module before generating a summary or report", e.Missing)
}

// Is lets errors.Is(err, ErrIncomplete) match.
func (e *IncompleteAssessmentError) Is(target error) bool {
	return target == ErrIncomplete
}

// IsUserError reports whether err is one the operator can fix: a
// rejected input or a missing module.
func IsUserError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrIncomplete)
}
