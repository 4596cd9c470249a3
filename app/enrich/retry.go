package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy bounds transient-failure retries on classification calls.
// The delay before attempt n is BaseDelay * (n-1), so retries back off
// linearly. Sleep is injectable so tests run without real delays.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

func NewRetryPolicy(maxAttempts int, baseDelay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		Sleep:       sleepWithContext,
	}
}

// Do runs fn up to MaxAttempts times, pausing between attempts. The
// pause blocks the pipeline on purpose: classification calls are serial
// to respect upstream rate limits. Context cancellation is not a
// transient failure: it is returned unwrapped so callers can abort the
// whole run.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt > 1 {
			delay := p.BaseDelay * time.Duration(attempt-1)
			slog.Debug("Retrying classification call", "attempt", attempt, "max_attempts", p.MaxAttempts, "delay", delay)
			if err := p.Sleep(ctx, delay); err != nil {
				return err
			}
		}

		if err := fn(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("exhausted %d attempts: %w", p.MaxAttempts, lastErr)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
