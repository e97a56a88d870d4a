package retry

import (
	"github.com/rohmanhakim/site-parser/pkg/timeutil"
)

// RetryParam holds the parameters for retry logic.
// These parameters are passed from outside (e.g., config) and should not
// be known by the retry handler internally.
type RetryParam struct {
	MaxRetries   int
	BackoffParam timeutil.BackoffParam
}

// NewRetryParam creates a new RetryParam with the given settings.
// MaxRetries counts retries, not attempts: a value of 2 allows up to
// three executions of the task.
func NewRetryParam(
	maxRetries int,
	backoffParam timeutil.BackoffParam,
) RetryParam {
	return RetryParam{
		MaxRetries:   maxRetries,
		BackoffParam: backoffParam,
	}
}
