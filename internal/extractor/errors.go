package extractor

import (
	"fmt"

	"github.com/rohmanhakim/site-parser/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseNotHTML = "input could not be parsed as HTML"
)

type ExtractionError struct {
	Message string
	Cause   ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s", e.Cause)
}

func (e *ExtractionError) Severity() failure.Severity {
	// A page that fails to parse never aborts the crawl
	return failure.SeverityRecoverable
}
