package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrPlanLocked        = errors.New("plan is not editable")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDuplicateActivity = errors.New("duplicate activity")
	ErrPlanExists        = errors.New("plan already exists")
)

// ValidationError reports a cost-driver value that violates its constraint.
// The offending value is never stored.
type ValidationError struct {
	Key    ActivityKey
	Field  Field
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s %s", e.Key, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s %q %s", e.Key, e.Field, e.Value, e.Reason)
}

// AsValidationError unwraps err into a *ValidationError when it carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
