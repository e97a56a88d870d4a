package retry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/site-parser/pkg/failure"
	"github.com/rohmanhakim/site-parser/pkg/retry"
	"github.com/rohmanhakim/site-parser/pkg/timeutil"
)

// mockError is a mock implementation of failure.ClassifiedError for testing
type mockError struct {
	msg       string
	retryable bool
}

func (m *mockError) Error() string {
	return m.msg
}

func (m *mockError) Severity() failure.Severity {
	if m.retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (m *mockError) IsRetryable() bool {
	return m.retryable
}

// recordingSleeper captures requested delays instead of sleeping
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(d time.Duration) {
	s.delays = append(s.delays, d)
}

func defaultRetryParam(maxRetries int) retry.RetryParam {
	return retry.NewRetryParam(
		maxRetries,
		timeutil.NewBackoffParam(0.5, 30*time.Second),
	)
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	sleeper := &recordingSleeper{}
	calls := 0

	got, err := retry.Retry(defaultRetryParam(2), sleeper, func() (string, failure.ClassifiedError) {
		calls++
		return "ok", nil
	})

	require.Nil(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	sleeper := &recordingSleeper{}
	calls := 0

	got, err := retry.Retry(defaultRetryParam(2), sleeper, func() (string, failure.ClassifiedError) {
		calls++
		if calls < 3 {
			return "", &mockError{msg: "transient", retryable: true}
		}
		return "ok", nil
	})

	require.Nil(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, sleeper.delays)
}

func TestRetry_NonRetryableFailsImmediately(t *testing.T) {
	sleeper := &recordingSleeper{}
	calls := 0
	terminal := &mockError{msg: "terminal", retryable: false}

	_, err := retry.Retry(defaultRetryParam(5), sleeper, func() (string, failure.ClassifiedError) {
		calls++
		return "", terminal
	})

	require.NotNil(t, err)
	assert.Equal(t, terminal, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestRetry_ExhaustionWrapsLastError(t *testing.T) {
	sleeper := &recordingSleeper{}
	calls := 0
	last := &mockError{msg: "still failing", retryable: true}

	_, err := retry.Retry(defaultRetryParam(2), sleeper, func() (string, failure.ClassifiedError) {
		calls++
		return "", last
	})

	require.NotNil(t, err)
	assert.Equal(t, 3, calls)

	var retryErr *retry.RetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, retry.RetryErrorCause(retry.ErrExhaustedAttempts), retryErr.Cause)

	var underlying *mockError
	require.True(t, errors.As(err, &underlying))
	assert.Equal(t, last, underlying)
}

func TestRetry_ZeroRetriesRunsOnce(t *testing.T) {
	sleeper := &recordingSleeper{}
	calls := 0

	_, err := retry.Retry(defaultRetryParam(0), sleeper, func() (string, failure.ClassifiedError) {
		calls++
		return "", &mockError{msg: "fail", retryable: true}
	})

	require.NotNil(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}
