// Package retry implements a small, explicit retry policy: a fixed number
// of attempts separated by a backoff schedule.
package retry

import (
	"context"
	"time"
)

// Policy describes how many times an operation may run and how long to
// wait between attempts. The zero value runs the operation exactly once.
type Policy struct {
	MaxAttempts int
	// Backoff returns the delay before attempt. Attempt numbering starts
	// at 1, so Backoff(1) is the delay between the first and second try.
	Backoff func(attempt int) time.Duration
	// Sleep is swappable for fake-clock tests. Nil means a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Linear returns a backoff schedule of step, 2*step, 3*step, ...
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Fixed returns a constant backoff schedule.
func Fixed(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// Do runs fn until it succeeds, attempts are exhausted, or the context is
// cancelled. The last error is returned on exhaustion.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = realSleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}
	}
	return lastErr
}

func realSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
