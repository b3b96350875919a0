/*
errors.go - Centralized error types for the performance engine

PURPOSE:
  All engine error types in one place. The api package maps these onto HTTP
  statuses via the IsClientError/IsNotFound helpers; domain packages wrap
  them with additional context.

SEE ALSO:
  - metrics.go: Window validation uses ErrUnresolvedWindow
  - review/workflow.go: Wraps ErrEmployeeNotFound and builds its own
    transition errors on top of these conventions
*/
package perf

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnresolvedWindow is returned when a computation is requested with
	// neither a shift reference nor an explicit from/to range. The window is
	// never silently defaulted to "today".
	ErrUnresolvedWindow = errors.New("unresolved window: provide a shift id or an explicit from/to range")

	// ErrInvalidWindow is returned when an explicit range ends before it starts.
	ErrInvalidWindow = errors.New("invalid window: end before start")

	// ErrInvalidPeriodType is returned for an unrecognized period type string.
	ErrInvalidPeriodType = errors.New("invalid period type")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrShiftNotFound is returned when a referenced duty shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError carries a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// SourceError wraps a failure from one of the upstream read collaborators,
// naming which source failed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.Is(err, ErrUnresolvedWindow) ||
		errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrInvalidPeriodType) ||
		errors.As(err, &ve)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrShiftNotFound)
}
