/*
errors.go - Error taxonomy for the goal engine

ERROR CATEGORIES:
  1. Validation errors - input rejected before any mutation
  2. Lookup errors     - the referenced goal does not exist
  3. Operation errors  - the intent does not apply to this goal kind

NOT ERRORS:
  A second check-in for a day that is already recorded, or deleting an
  entry/goal id that is gone, are benign no-ops and return nil.

USAGE:
  if goal.IsClientError(err) {
      // 400
  }
*/
package goal

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyTitle is returned when a goal is created without a title.
	ErrEmptyTitle = errors.New("title is required")

	// ErrInvalidTarget is returned when a numeric goal has a missing or
	// non-finite target.
	ErrInvalidTarget = errors.New("target must be a finite number")

	// ErrInvalidValue is returned for non-finite entry or initial values.
	ErrInvalidValue = errors.New("value must be a finite number")

	// ErrInvalidDate is returned when an entry date is not a YYYY-MM-DD calendar day.
	ErrInvalidDate = errors.New("date must be a calendar day (YYYY-MM-DD)")

	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownKind     = errors.New("unknown goal type")

	// ErrGoalNotFound is returned when an intent references a missing goal
	// and the intent is not defined as a no-op for that case.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrNotStreakGoal is returned by check-in intents on numeric goals.
	ErrNotStreakGoal = errors.New("operation requires a streak goal")

	// ErrInvalidOrder is returned when a reorder is not a permutation of
	// the current collection.
	ErrInvalidOrder = errors.New("order must list every goal exactly once")

	// ErrDuplicateID is returned when two goals share an id, or two entries
	// of one goal do.
	ErrDuplicateID = errors.New("id must be unique")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError names the offending field. It unwraps to one of the
// sentinels above.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, ErrNotStreakGoal) ||
		errors.Is(err, ErrInvalidOrder) ||
		errors.Is(err, ErrDuplicateID)
}

// IsNotFound returns true if the error indicates a missing goal.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGoalNotFound)
}
