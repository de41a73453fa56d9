package adapters

import (
	"context"
	"math/rand"
	"time"
)

// withRetry runs fn up to maxRetries+1 times with exponential backoff
// and jitter between attempts, matching spec §4.1's "retried up to
// max_retries with exponential backoff" contract. It stops early and
// returns ctx.Err() if ctx is cancelled during a backoff wait. fn itself decides
// whether a particular failure is retryable by returning retryable=false.
func withRetry(ctx context.Context, maxRetries int, fn func(attempt int) (ok bool, retryable bool, err error)) (bool, error) {
	var lastErr error
	base := 200 * time.Millisecond
	for attempt := 0; attempt <= maxRetries; attempt++ {
		ok, retryable, err := fn(attempt)
		if ok {
			return true, nil
		}
		lastErr = err
		if !retryable || attempt == maxRetries {
			break
		}
		backoff := base * time.Duration(1<<uint(attempt))
		jitter := time.Duration(rand.Int63n(int64(backoff / 2)))
		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return false, lastErr
}
