package timeutil

import (
	"math"
	"time"
)

// Exponential backoff parameters
// example:
//
//	factor := 0.5                 // delays 0.5s, 1s, 2s, ...
//	maxDelay := 30 * time.Second  // cap for the multiplication
type BackoffParam struct {
	factor   float64
	maxDelay time.Duration
}

func NewBackoffParam(
	factor float64,
	maxDelay time.Duration,
) BackoffParam {
	return BackoffParam{
		factor:   factor,
		maxDelay: maxDelay,
	}
}

func (b *BackoffParam) Factor() float64 {
	return b.factor
}

func (b *BackoffParam) MaxDelay() time.Duration {
	return b.maxDelay
}

// Delay computes the wait before retry number retryCount (1-based):
// factor * 2^(retryCount-1) seconds, capped at MaxDelay.
func (b *BackoffParam) Delay(retryCount int) time.Duration {
	if retryCount < 1 || b.factor <= 0 {
		return 0
	}
	seconds := b.factor * math.Pow(2, float64(retryCount-1))
	delay := time.Duration(seconds * float64(time.Second))
	if b.maxDelay > 0 && delay > b.maxDelay {
		return b.maxDelay
	}
	return delay
}
