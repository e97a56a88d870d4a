package fetcher

import (
	"context"
)

// Fetcher is the HTTP boundary the scheduler dispatches against.
// Implementations must be safe for concurrent use by the worker pool.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) Outcome
}
