package retry

import (
	"fmt"

	"github.com/rohmanhakim/site-parser/pkg/failure"
	"github.com/rohmanhakim/site-parser/pkg/timeutil"
)

// Retry executes the provided function, retrying it up to MaxRetries
// additional times with exponential backoff between attempts. Only
// retryable errors trigger a retry; the first non-retryable error is
// returned as-is.
//
// Type parameter T represents the return type of the function being retried.
func Retry[T any](
	retryParam RetryParam,
	sleeper timeutil.Sleeper,
	fn func() (T, failure.ClassifiedError),
) (T, failure.ClassifiedError) {
	var lastErr failure.ClassifiedError
	var zero T

	maxRetries := retryParam.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			sleeper.Sleep(retryParam.BackoffParam.Delay(attempt))
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isErrorRetryable(err) {
			return zero, err
		}
	}

	return zero, &RetryError{
		Message: fmt.Sprintf("gave up after %d retries. Last error: %v", maxRetries, lastErr),
		Cause:   ErrExhaustedAttempts,
		Last:    lastErr,
	}
}

// isErrorRetryable checks if an error should be retried.
// It uses type assertion to check for the Retryable property.
func isErrorRetryable(err failure.ClassifiedError) bool {
	type hasRetryable interface {
		IsRetryable() bool
	}

	if r, ok := err.(hasRetryable); ok {
		return r.IsRetryable()
	}

	// Errors that don't classify themselves are retried, matching the
	// severity contract's recoverable default.
	return true
}
