package backoff

import (
	"context"
	"math/rand/v2"
	"time"
)

// CalculateRetryDelay returns the delay before the given attempt: nothing
// before the first attempt, then 2^(attempt-1) * base with +/-50% jitter.
func CalculateRetryDelay(attempt int, base time.Duration) time.Duration {
	if attempt <= 1 || base <= 0 {
		return 0
	}

	delay := base << (attempt - 1)
	if delay <= 0 {
		return 0
	}
	jitter := time.Duration((rand.Float64() - 0.5) * float64(delay))
	if delay+jitter < 0 {
		return 0
	}
	return delay + jitter
}

// Sleep waits for d or until ctx is done, whichever happens first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
