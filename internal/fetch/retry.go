package fetch

import (
	"context"
	"time"
)

// RetryDelay is the fixed wait before the single retry attempt.
const RetryDelay = 500 * time.Millisecond

// WithRetry runs op and, on any failure, waits RetryDelay and tries exactly
// once more before propagating the second error. Every harvester network call
// goes through this wrapper.
func WithRetry(ctx context.Context, op func() (*Result, error)) (*Result, error) {
	result, err := op()
	if err == nil {
		return result, nil
	}

	select {
	case <-time.After(RetryDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return op()
}
