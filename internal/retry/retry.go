package retry

import (
	"context"
	"fmt"
	"time"

	"papertrader/internal/logger"
)

// Policy configures retry behavior for a fallible external call.
type Policy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultPolicy returns the retry configuration used when none is set.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     5 * time.Second,
	}
}

// Do runs fn up to p.MaxAttempts times with capped exponential backoff
// between attempts. The op name is only used for logging.
func Do(ctx context.Context, p Policy, op string, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p = DefaultPolicy()
	}

	var lastErr error
	waitTime := p.InitialWait

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		logger.Debug(ctx, "Attempt", "op", op, "attempt", attempt, "maxAttempts", p.MaxAttempts)

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		logger.Warn(ctx, "Attempt failed, retrying", "op", op, "attempt", attempt, "error", err, "waitTime", waitTime)

		// Don't wait after the last attempt
		if attempt < p.MaxAttempts {
			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return ctx.Err()
			}
			// Exponential backoff
			waitTime = waitTime * 2
			if p.MaxWait > 0 && waitTime > p.MaxWait {
				waitTime = p.MaxWait
			}
		}
	}

	logger.Error(ctx, "All retry attempts failed", "op", op, "maxAttempts", p.MaxAttempts, "error", lastErr)
	return fmt.Errorf("all %d retry attempts failed: %w", p.MaxAttempts, lastErr)
}
