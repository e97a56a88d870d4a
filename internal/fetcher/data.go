package fetcher

import (
	"time"

	"github.com/rohmanhakim/site-parser/pkg/retry"
)

// HTTP boundary

// Reason tags a terminal fetch outcome. The values are the stable
// failure vocabulary surfaced in diagnostics.
type Reason string

const (
	ReasonOK           Reason = "ok"
	ReasonHTTPStatus   Reason = "http_status"
	ReasonContentType  Reason = "content_type"
	ReasonURLNormalize Reason = "url_normalize"
	ReasonRequestError Reason = "request_error"
)

// Policy carries the per-run fetch settings. It is immutable and shared
// by every worker.
type Policy struct {
	userAgent    string
	timeout      time.Duration
	maxBodyBytes int64
	includeQuery bool
	retryParam   retry.RetryParam
}

func NewPolicy(
	userAgent string,
	timeout time.Duration,
	maxBodyBytes int64,
	includeQuery bool,
	retryParam retry.RetryParam,
) Policy {
	return Policy{
		userAgent:    userAgent,
		timeout:      timeout,
		maxBodyBytes: maxBodyBytes,
		includeQuery: includeQuery,
		retryParam:   retryParam,
	}
}

// Page is a successfully fetched document: the canonical post-redirect
// URL plus the decoded body text.
type Page struct {
	finalURL string
	text     string
}

func NewPage(finalURL string, text string) Page {
	return Page{
		finalURL: finalURL,
		text:     text,
	}
}

// FinalURL returns the canonical URL of the page actually served,
// after redirects.
func (p Page) FinalURL() string {
	return p.finalURL
}

func (p Page) Text() string {
	return p.text
}

// Outcome is the result of one fetch: either a page or a reason.
type Outcome struct {
	page   *Page
	reason Reason
}

func PageOutcome(page Page) Outcome {
	return Outcome{
		page:   &page,
		reason: ReasonOK,
	}
}

func FailedOutcome(reason Reason) Outcome {
	return Outcome{
		reason: reason,
	}
}

func (o Outcome) OK() bool {
	return o.page != nil
}

// Page returns the fetched page; only valid when OK reports true.
func (o Outcome) Page() Page {
	return *o.page
}

func (o Outcome) Reason() Reason {
	return o.reason
}
