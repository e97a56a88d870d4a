package fetcher

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/site-parser/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTransport    = "network issues"
	ErrCauseHTTPStatus   = "bad HTTP status"
	ErrCauseContentType  = "unsupported content type"
	ErrCauseBodyRead     = "failed to read response body"
	ErrCauseURLNormalize = "final URL not canonicalizable"
)

type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s", e.Cause)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

// outcomeReason maps the terminal error of a fetch — possibly wrapped
// by retry exhaustion — to the stable outcome reason vocabulary.
func outcomeReason(err failure.ClassifiedError) Reason {
	var fetchError *FetchError
	if !errors.As(err, &fetchError) {
		return ReasonRequestError
	}
	switch fetchError.Cause {
	case ErrCauseHTTPStatus:
		return ReasonHTTPStatus
	case ErrCauseContentType:
		return ReasonContentType
	case ErrCauseURLNormalize:
		return ReasonURLNormalize
	default:
		return ReasonRequestError
	}
}
