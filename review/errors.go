package review

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSuggestionNotFound is returned when a referenced suggestion
	// doesn't exist.
	ErrSuggestionNotFound = errors.New("suggestion not found")

	// ErrDecisionLocked is returned when a status update tries to move an
	// ACCEPTED or REJECTED suggestion to a different status. The existing
	// decision is left intact.
	ErrDecisionLocked = errors.New("suggestion already decided")

	// ErrInvalidCategory is returned for an unrecognized award or
	// suggestion category.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidStatus is returned for an unrecognized suggestion status.
	ErrInvalidStatus = errors.New("invalid status")
)

// TransitionError carries the rejected transition's details.
type TransitionError struct {
	SuggestionID string
	From         SuggestionStatus
	To           SuggestionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move suggestion %s from %s to %s", e.SuggestionID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrDecisionLocked }

// IsClientError returns true if the error is the caller's fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDecisionLocked) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidStatus)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSuggestionNotFound)
}
