package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/rohmanhakim/site-parser/pkg/failure"
	"github.com/rohmanhakim/site-parser/pkg/retry"
	"github.com/rohmanhakim/site-parser/pkg/timeutil"
	"github.com/rohmanhakim/site-parser/pkg/urlutil"
)

/*
Responsibilities

- Perform HTTP GET requests
- Apply headers and per-attempt timeouts
- Follow redirects and report the canonical final URL
- Retry transient failures with exponential backoff
- Gate on status and content type
- Cap the body read at the configured byte budget
- Classify every terminal failure under a stable reason

Fetch Semantics

- Transient statuses (429, 500, 502, 503, 504) and transport errors are
  retried; any other status >= 400 fails immediately
- A missing Content-Type header is allowed; anything that is not
  text/html, application/xhtml+xml or text/plain is rejected unread
- The body is streamed in chunks and truncated at the byte cap
- Bytes are decoded per the declared charset, utf-8 otherwise; invalid
  sequences are replaced, never fatal

The fetcher never parses content; it only returns decoded text and the
final URL.
*/

const bodyChunkSize = 16 * 1024

var allowedContentTypes = []string{"text/html", "application/xhtml+xml", "text/plain"}

type HtmlFetcher struct {
	policy     Policy
	httpClient *http.Client
	sleeper    timeutil.Sleeper
	logger     *zap.Logger
}

func NewHtmlFetcher(policy Policy, logger *zap.Logger) HtmlFetcher {
	return HtmlFetcher{
		policy: policy,
		httpClient: &http.Client{
			Timeout: policy.timeout,
		},
		sleeper: &timeutil.RealSleeper{},
		logger:  logger,
	}
}

// NewHtmlFetcherWithDeps creates an HtmlFetcher with an injected HTTP
// client and sleeper for testing.
func NewHtmlFetcherWithDeps(
	policy Policy,
	httpClient *http.Client,
	sleeper timeutil.Sleeper,
	logger *zap.Logger,
) HtmlFetcher {
	return HtmlFetcher{
		policy:     policy,
		httpClient: httpClient,
		sleeper:    sleeper,
		logger:     logger,
	}
}

func (h *HtmlFetcher) Fetch(ctx context.Context, rawURL string) Outcome {
	h.logger.Info("HTTP GET", zap.String("url", rawURL))

	page, err := retry.Retry(h.policy.retryParam, h.sleeper, func() (Page, failure.ClassifiedError) {
		return h.performFetch(ctx, rawURL)
	})
	if err != nil {
		reason := outcomeReason(err)
		h.logger.Debug("fetch failed",
			zap.String("url", rawURL),
			zap.String("reason", string(reason)),
			zap.Error(err),
		)
		return FailedOutcome(reason)
	}

	return PageOutcome(page)
}

func (h *HtmlFetcher) performFetch(ctx context.Context, rawURL string) (Page, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseTransport,
		}
	}

	req.Header.Set("User-Agent", h.policy.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		// Connection, TLS and timeout errors are retryable
		return Page{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseTransport,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		h.logger.Debug("skipping by status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return Page{}, &FetchError{
			Message:   fmt.Sprintf("status %d", resp.StatusCode),
			Retryable: isTransientStatus(resp.StatusCode),
			Cause:     ErrCauseHTTPStatus,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isAllowedContentType(contentType) {
		return Page{}, &FetchError{
			Message:   fmt.Sprintf("content type %q", contentType),
			Retryable: false,
			Cause:     ErrCauseContentType,
		}
	}

	body, readErr := readLimitedBody(resp.Body, h.policy.maxBodyBytes)
	if readErr != nil {
		return Page{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", readErr),
			Retryable: true,
			Cause:     ErrCauseBodyRead,
		}
	}

	finalURL, normErr := urlutil.Normalize(resp.Request.URL.String(), h.policy.includeQuery)
	if normErr != nil {
		return Page{}, &FetchError{
			Message:   fmt.Sprintf("final URL: %v", normErr),
			Retryable: false,
			Cause:     ErrCauseURLNormalize,
		}
	}

	return NewPage(finalURL, decodeBody(body, contentType)), nil
}

// isTransientStatus reports whether a status is worth another attempt.
func isTransientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// isAllowedContentType matches the header case-insensitively against
// the allowed substrings. A missing header passes.
func isAllowedContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	value := strings.ToLower(contentType)
	for _, allowed := range allowedContentTypes {
		if strings.Contains(value, allowed) {
			return true
		}
	}
	return false
}

// readLimitedBody streams the response in chunks and truncates the
// result to exactly maxBytes once the budget is exceeded.
func readLimitedBody(body io.Reader, maxBytes int64) ([]byte, error) {
	collected := make([]byte, 0, bodyChunkSize)
	chunk := make([]byte, bodyChunkSize)
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			collected = append(collected, chunk[:n]...)
			if int64(len(collected)) > maxBytes {
				return collected[:maxBytes], nil
			}
		}
		if err == io.EOF {
			return collected, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// decodeBody converts raw bytes to UTF-8 text using the declared
// charset, defaulting to utf-8. Undecodable input falls back to a
// lossy byte-for-byte interpretation rather than failing the page.
func decodeBody(body []byte, contentType string) string {
	if _, params, err := mime.ParseMediaType(contentType); err != nil || params["charset"] == "" {
		return strings.ToValidUTF8(string(body), "�")
	}
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
