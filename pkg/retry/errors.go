package retry

import (
	"fmt"

	"github.com/rohmanhakim/site-parser/pkg/failure"
)

type RetryErrorCause string

const (
	ErrExhaustedAttempts = "exhausted attempts"
)

// RetryError wraps the last task error after every allowed retry failed.
type RetryError struct {
	Message string
	Cause   RetryErrorCause
	Last    failure.ClassifiedError
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("retry error: %s, %s", e.Cause, e.Message)
}

func (e *RetryError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// Unwrap exposes the last underlying error so errors.As can classify
// the terminal failure.
func (e *RetryError) Unwrap() error {
	if e.Last == nil {
		return nil
	}
	return e.Last
}

// Is allows errors.Is to match RetryError types
func (e *RetryError) Is(target error) bool {
	_, ok := target.(*RetryError)
	return ok
}
